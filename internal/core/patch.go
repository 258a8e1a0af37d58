package core

// Patch is a sparse update payload: only the supplied keys change.
// Keys are remote column names. The validation boundary rejects
// unknown columns, attempts to touch store-assigned columns, and
// invalid enum values; everything else passes through untouched.
type Patch map[string]any

var reservedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

var clientColumns = map[string]bool{
	"name": true, "company": true, "email": true, "phone": true,
	"sector": true, "status": true, "active_channels": true,
	"pain_points": true, "notes": true,
}

var projectColumns = map[string]bool{
	"client_id": true, "name": true, "type": true, "status": true,
	"area": true, "budget": true, "margin": true, "start_date": true,
	"end_date": true, "description": true,
}

var taskColumns = map[string]bool{
	"project_id": true, "title": true, "description": true,
	"status": true, "priority": true, "due_date": true,
	"assigned_to": true, "estimated_hours": true, "tags": true,
	"area": true,
}

var transactionColumns = map[string]bool{
	"type": true, "amount": true, "category": true, "date": true,
	"area": true, "client_id": true, "project_id": true,
	"payment_method": true, "status": true, "invoice_number": true,
	"notes": true,
}

var proposalColumns = map[string]bool{
	"client_id": true, "project_id": true, "title": true,
	"services": true, "amount": true, "status": true,
	"valid_until": true, "discount": true, "terms": true,
	"notes": true,
}

func (p Patch) validateColumns(allowed map[string]bool) error {
	if len(p) == 0 {
		return Validationf("empty update payload")
	}
	for k := range p {
		if reservedColumns[k] {
			return Validationf("column %q is assigned by the store", k)
		}
		if !allowed[k] {
			return Validationf("unknown column %q", k)
		}
	}
	return nil
}

func (p Patch) enumValue(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ValidateClient checks the patch against the clients table.
func (p Patch) ValidateClient() error {
	if err := p.validateColumns(clientColumns); err != nil {
		return err
	}
	if s, ok := p.enumValue("status"); ok && !ClientStatus(s).Valid() {
		return Validationf("invalid client status %q", s)
	}
	if v, ok := p["name"]; ok {
		if s, _ := v.(string); s == "" {
			return Validationf("name cannot be cleared")
		}
	}
	return nil
}

// ValidateProject checks the patch against the projects table.
func (p Patch) ValidateProject() error {
	if err := p.validateColumns(projectColumns); err != nil {
		return err
	}
	if s, ok := p.enumValue("status"); ok && !ProjectStatus(s).Valid() {
		return Validationf("invalid project status %q", s)
	}
	if s, ok := p.enumValue("type"); ok && !ProjectType(s).Valid() {
		return Validationf("invalid project type %q", s)
	}
	if s, ok := p.enumValue("area"); ok && !Area(s).Valid() {
		return Validationf("invalid area %q", s)
	}
	return nil
}

// ValidateTask checks the patch against the tasks table.
func (p Patch) ValidateTask() error {
	if err := p.validateColumns(taskColumns); err != nil {
		return err
	}
	if s, ok := p.enumValue("status"); ok && !TaskStatus(s).Valid() {
		return Validationf("invalid task status %q", s)
	}
	if s, ok := p.enumValue("priority"); ok && !TaskPriority(s).Valid() {
		return Validationf("invalid priority %q", s)
	}
	if s, ok := p.enumValue("area"); ok && s != "" && !Area(s).Valid() {
		return Validationf("invalid area %q", s)
	}
	return nil
}

// ValidateTransaction checks the patch against the transactions table.
func (p Patch) ValidateTransaction() error {
	if err := p.validateColumns(transactionColumns); err != nil {
		return err
	}
	if s, ok := p.enumValue("type"); ok && !TransactionType(s).Valid() {
		return Validationf("invalid transaction type %q", s)
	}
	if s, ok := p.enumValue("status"); ok && !TransactionStatus(s).Valid() {
		return Validationf("invalid transaction status %q", s)
	}
	if s, ok := p.enumValue("area"); ok && !Area(s).Valid() {
		return Validationf("invalid area %q", s)
	}
	return nil
}

// ValidateProposal checks the patch against the proposals table.
func (p Patch) ValidateProposal() error {
	if err := p.validateColumns(proposalColumns); err != nil {
		return err
	}
	if s, ok := p.enumValue("status"); ok && !ProposalStatus(s).Valid() {
		return Validationf("invalid proposal status %q", s)
	}
	if v, ok := p["client_id"]; ok {
		if s, _ := v.(string); s == "" {
			return Validationf("client_id cannot be cleared")
		}
	}
	return nil
}
