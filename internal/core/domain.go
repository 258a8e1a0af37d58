package core

import (
	"time"
)

// Area partitions projects, tasks and transactions into independent
// business lines. "finanze" exists only as a UI label, never as a
// stored value.
type Area string

const (
	AreaStudio  Area = "studio"
	AreaPrizm   Area = "prizm"
	AreaStatale Area = "statale"
)

// Areas lists the valid area values in display order.
var Areas = []Area{AreaStudio, AreaPrizm, AreaStatale}

func (a Area) Valid() bool {
	switch a {
	case AreaStudio, AreaPrizm, AreaStatale:
		return true
	}
	return false
}

type (
	ClientStatus      string
	ProjectType       string
	ProjectStatus     string
	TaskStatus        string
	TaskPriority      string
	TransactionType   string
	TransactionStatus string
	ProposalStatus    string
)

const (
	ClientLead     ClientStatus = "lead"
	ClientProspect ClientStatus = "prospect"
	ClientActive   ClientStatus = "active"
	ClientLoyal    ClientStatus = "loyal"

	ProjectPhoto       ProjectType = "photo"
	ProjectVideo       ProjectType = "video"
	ProjectWedding     ProjectType = "wedding"
	ProjectBaptism     ProjectType = "baptism"
	ProjectSocialMedia ProjectType = "social_media"

	ProjectIdea      ProjectStatus = "idea"
	ProjectActive    ProjectStatus = "active"
	ProjectReview    ProjectStatus = "review"
	ProjectCompleted ProjectStatus = "completed"

	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"

	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"

	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"

	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"

	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExpired  ProposalStatus = "expired"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientLead, ClientProspect, ClientActive, ClientLoyal:
		return true
	}
	return false
}

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectPhoto, ProjectVideo, ProjectWedding, ProjectBaptism, ProjectSocialMedia:
		return true
	}
	return false
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectIdea, ProjectActive, ProjectReview, ProjectCompleted:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed:
		return true
	}
	return false
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalDraft, ProposalSent, ProposalAccepted, ProposalRejected, ProposalExpired:
		return true
	}
	return false
}

// Record holds the columns the remote store assigns on every table.
// The application never synthesizes these for persisted rows.
type Record struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Client is a CRM contact.
type Client struct {
	Record
	Name           string       `json:"name"`
	Company        string       `json:"company,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Sector         string       `json:"sector,omitempty"`
	Status         ClientStatus `json:"status"`
	ActiveChannels []string     `json:"active_channels,omitempty"`
	PainPoints     []string     `json:"pain_points,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// Project belongs to at most one client. The embedded join fields use
// the remote table names, matching the representation the store sends
// back for one-level and deep joins.
type Project struct {
	Record
	ClientID    *string       `json:"client_id,omitempty"`
	Name        string        `json:"name"`
	Type        ProjectType   `json:"type"`
	Status      ProjectStatus `json:"status"`
	Area        Area          `json:"area"`
	Budget      *Money        `json:"budget,omitempty"`
	Margin      *float64      `json:"margin,omitempty"`
	StartDate   *Date         `json:"start_date,omitempty"`
	EndDate     *Date         `json:"end_date,omitempty"`
	Description string        `json:"description,omitempty"`

	Client       *Client       `json:"clients,omitempty"`
	Tasks        []Task        `json:"tasks,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// Task belongs to at most one project.
type Task struct {
	Record
	ProjectID      *string      `json:"project_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        *Date        `json:"due_date,omitempty"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Area           Area         `json:"area,omitempty"`

	Project *Project `json:"projects,omitempty"`
}

// Transaction is a single income or expense movement.
type Transaction struct {
	Record
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

	Client  *Client  `json:"clients,omitempty"`
	Project *Project `json:"projects,omitempty"`
}

// Proposal belongs to exactly one client.
type Proposal struct {
	Record
	ClientID   string         `json:"client_id"`
	ProjectID  *string        `json:"project_id,omitempty"`
	Title      string         `json:"title"`
	Services   []string       `json:"services,omitempty"`
	Amount     Money          `json:"amount"`
	Status     ProposalStatus `json:"status"`
	ValidUntil Date           `json:"valid_until,omitzero"`
	Discount   *float64       `json:"discount,omitempty"`
	Terms      string         `json:"terms,omitempty"`
	Notes      string         `json:"notes,omitempty"`

	Client *Client `json:"clients,omitempty"`
}

// Expired reports whether the proposal should be presented as expired.
// Derived from the stored validity date and the clock at read time,
// never written back to the store.
func (p Proposal) Expired(now time.Time) bool {
	if p.ValidUntil.IsZero() {
		return false
	}
	switch p.Status {
	case ProposalDraft, ProposalSent:
		return p.ValidUntil.Time.Before(now.Truncate(24 * time.Hour))
	}
	return false
}
