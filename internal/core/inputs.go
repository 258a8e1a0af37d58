package core

import (
	"strings"
	"time"
)

// Input structs are the single validation boundary for writes. They
// never carry id or timestamps; the store assigns those. JSON tags use
// the remote column names so a validated input doubles as the insert
// payload.

// ClientInput carries the fields accepted when creating a client.
type ClientInput struct {
	Name           string       `json:"name"`
	Company        string       `json:"company,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Sector         string       `json:"sector,omitempty"`
	Status         ClientStatus `json:"status,omitempty"`
	ActiveChannels []string     `json:"active_channels,omitempty"`
	PainPoints     []string     `json:"pain_points,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// Normalize applies input-layer defaults.
func (in *ClientInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = ClientLead
	}
}

func (in ClientInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Validationf("name is required")
	}
	if !in.Status.Valid() {
		return Validationf("invalid client status %q", in.Status)
	}
	return nil
}

// ProjectInput carries the fields accepted when creating a project.
type ProjectInput struct {
	ClientID    *string       `json:"client_id,omitempty"`
	Name        string        `json:"name"`
	Type        ProjectType   `json:"type"`
	Status      ProjectStatus `json:"status,omitempty"`
	Area        Area          `json:"area"`
	Budget      *Money        `json:"budget,omitempty"`
	Margin      *float64      `json:"margin,omitempty"`
	StartDate   *Date         `json:"start_date,omitempty"`
	EndDate     *Date         `json:"end_date,omitempty"`
	Description string        `json:"description,omitempty"`
}

func (in *ProjectInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = ProjectIdea
	}
}

func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Validationf("name is required")
	}
	if !in.Type.Valid() {
		return Validationf("invalid project type %q", in.Type)
	}
	if !in.Status.Valid() {
		return Validationf("invalid project status %q", in.Status)
	}
	if !in.Area.Valid() {
		return Validationf("invalid area %q", in.Area)
	}
	if in.Budget != nil && in.Budget.Cents < 0 {
		return Validationf("budget cannot be negative")
	}
	if in.Margin != nil && (*in.Margin < 0 || *in.Margin > 100) {
		return Validationf("margin must be a percentage between 0 and 100")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Time.Before(in.StartDate.Time) {
		return Validationf("end_date must not precede start_date")
	}
	return nil
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	ProjectID      *string      `json:"project_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status,omitempty"`
	Priority       TaskPriority `json:"priority,omitempty"`
	DueDate        *Date        `json:"due_date,omitempty"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Area           Area         `json:"area,omitempty"`
}

func (in *TaskInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = TaskTodo
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return Validationf("title is required")
	}
	if !in.Status.Valid() {
		return Validationf("invalid task status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return Validationf("invalid priority %q", in.Priority)
	}
	if in.Area != "" && !in.Area.Valid() {
		return Validationf("invalid area %q", in.Area)
	}
	if in.EstimatedHours != nil && *in.EstimatedHours < 0 {
		return Validationf("estimated_hours cannot be negative")
	}
	return nil
}

// TransactionInput carries the fields accepted when creating a
// transaction.
type TransactionInput struct {
	Type          TransactionType   `json:"type"`
	Amount        Money             `json:"amount"`
	Category      string            `json:"category"`
	Date          Date              `json:"date"`
	Area          Area              `json:"area"`
	ClientID      *string           `json:"client_id,omitempty"`
	ProjectID     *string           `json:"project_id,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Status        TransactionStatus `json:"status,omitempty"`
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

func (in *TransactionInput) Normalize() {
	in.Category = strings.TrimSpace(in.Category)
	if in.Status == "" {
		in.Status = TransactionCompleted
	}
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return Validationf("invalid transaction type %q", in.Type)
	}
	if in.Amount.Cents < 0 {
		return Validationf("amount cannot be negative")
	}
	if in.Category == "" {
		return Validationf("category is required")
	}
	if in.Date.IsZero() {
		return Validationf("date is required")
	}
	if !in.Area.Valid() {
		return Validationf("invalid area %q", in.Area)
	}
	if !in.Status.Valid() {
		return Validationf("invalid transaction status %q", in.Status)
	}
	return nil
}

// ProposalInput carries the fields accepted when creating a proposal.
type ProposalInput struct {
	ClientID   string         `json:"client_id"`
	ProjectID  *string        `json:"project_id,omitempty"`
	Title      string         `json:"title"`
	Services   []string       `json:"services,omitempty"`
	Amount     Money          `json:"amount"`
	Status     ProposalStatus `json:"status,omitempty"`
	ValidUntil Date           `json:"valid_until,omitzero"`
	Discount   *float64       `json:"discount,omitempty"`
	Terms      string         `json:"terms,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

// Normalize applies input-layer defaults; the 30-day validity default
// lives here and only here, never in the store layer.
func (in *ProposalInput) Normalize(now time.Time) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = ProposalDraft
	}
	if in.ValidUntil.IsZero() {
		in.ValidUntil = Today(now.AddDate(0, 0, 30))
	}
}

func (in ProposalInput) Validate() error {
	if strings.TrimSpace(in.ClientID) == "" {
		return Validationf("client_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return Validationf("title is required")
	}
	if in.Amount.Cents <= 0 {
		return Validationf("amount must be positive")
	}
	if !in.Status.Valid() {
		return Validationf("invalid proposal status %q", in.Status)
	}
	if in.Discount != nil && (*in.Discount < 0 || *in.Discount > 100) {
		return Validationf("discount must be a percentage between 0 and 100")
	}
	return nil
}
