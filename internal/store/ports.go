// Package store defines the persistence ports of the application.
// Implementations live in internal/supabase (hosted backend) and
// internal/store/memory (self-contained demo backend); the rest of the
// program only sees these interfaces.
package store

import (
	"context"

	"gestionale/internal/core"
)

// ClientStore persists clients.
type ClientStore interface {
	List(ctx context.Context) ([]core.Client, error)
	Get(ctx context.Context, id string) (*core.Client, error)
	Create(ctx context.Context, in core.ClientInput) (*core.Client, error)
	Update(ctx context.Context, id string, patch core.Patch) (*core.Client, error)
	Delete(ctx context.Context, id string) error
}

// ProjectStore persists projects. Get returns the project with its
// client, tasks and transactions embedded; List variants embed the
// client only.
type ProjectStore interface {
	List(ctx context.Context) ([]core.Project, error)
	ListByArea(ctx context.Context, area core.Area) ([]core.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]core.Project, error)
	Get(ctx context.Context, id string) (*core.Project, error)
	Create(ctx context.Context, in core.ProjectInput) (*core.Project, error)
	Update(ctx context.Context, id string, patch core.Patch) (*core.Project, error)
	Delete(ctx context.Context, id string) error
}

// TaskStore persists tasks.
type TaskStore interface {
	List(ctx context.Context) ([]core.Task, error)
	ListByArea(ctx context.Context, area core.Area) ([]core.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]core.Task, error)
	Get(ctx context.Context, id string) (*core.Task, error)
	Create(ctx context.Context, in core.TaskInput) (*core.Task, error)
	Update(ctx context.Context, id string, patch core.Patch) (*core.Task, error)
	Delete(ctx context.Context, id string) error
}

// TransactionStore persists transactions. Lists come back newest
// first: date descending, then creation time descending.
type TransactionStore interface {
	List(ctx context.Context) ([]core.Transaction, error)
	ListByArea(ctx context.Context, area core.Area) ([]core.Transaction, error)
	ListByDateRange(ctx context.Context, from, to core.Date) ([]core.Transaction, error)
	Get(ctx context.Context, id string) (*core.Transaction, error)
	Create(ctx context.Context, in core.TransactionInput) (*core.Transaction, error)
	Update(ctx context.Context, id string, patch core.Patch) (*core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// ProposalStore persists proposals.
type ProposalStore interface {
	List(ctx context.Context) ([]core.Proposal, error)
	ListByClient(ctx context.Context, clientID string) ([]core.Proposal, error)
	Get(ctx context.Context, id string) (*core.Proposal, error)
	Create(ctx context.Context, in core.ProposalInput) (*core.Proposal, error)
	Update(ctx context.Context, id string, patch core.Patch) (*core.Proposal, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles the five entity ports of one backend.
type Stores struct {
	Clients      ClientStore
	Projects     ProjectStore
	Tasks        TaskStore
	Transactions TransactionStore
	Proposals    ProposalStore
}
