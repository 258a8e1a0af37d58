package supabase

import (
	"context"
	"time"

	"gestionale/internal/core"
	"gestionale/internal/store"
)

// NewStores wires the five entity ports onto one client. All
// implementations share the same connection and error mapping.
func NewStores(c *Client) store.Stores {
	return store.Stores{
		Clients:      &clientStore{c: c},
		Projects:     &projectStore{c: c},
		Tasks:        &taskStore{c: c},
		Transactions: &transactionStore{c: c},
		Proposals:    &proposalStore{c: c},
	}
}

var (
	_ store.ClientStore      = (*clientStore)(nil)
	_ store.ProjectStore     = (*projectStore)(nil)
	_ store.TaskStore        = (*taskStore)(nil)
	_ store.TransactionStore = (*transactionStore)(nil)
	_ store.ProposalStore    = (*proposalStore)(nil)
)

type idRow struct {
	ID string `json:"id"`
}

func deleteByID(ctx context.Context, q *Query, id string) error {
	var deleted []idRow
	if err := q.Eq("id", id).Delete(ctx, &deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return core.ErrNotFound
	}
	return nil
}

type clientStore struct {
	c *Client
}

func (s *clientStore) List(ctx context.Context) ([]core.Client, error) {
	var clients []core.Client
	err := s.c.From("clients").
		Select("*").
		Order("created_at", false).
		Get(ctx, &clients)
	return clients, err
}

func (s *clientStore) Get(ctx context.Context, id string) (*core.Client, error) {
	var client core.Client
	err := s.c.From("clients").
		Select("*").
		Eq("id", id).
		Single().
		Get(ctx, &client)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientStore) Create(ctx context.Context, in core.ClientInput) (*core.Client, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var client core.Client
	if err := s.c.From("clients").Insert(ctx, in, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Client, error) {
	if err := patch.ValidateClient(); err != nil {
		return nil, err
	}
	var client core.Client
	if err := s.c.From("clients").Eq("id", id).Update(ctx, patch, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.c.From("clients"), id)
}

type projectStore struct {
	c *Client
}

const projectListColumns = "*, clients(*)"

func (s *projectStore) List(ctx context.Context) ([]core.Project, error) {
	return s.list(ctx, func(q *Query) *Query { return q })
}

func (s *projectStore) ListByArea(ctx context.Context, area core.Area) ([]core.Project, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("area", area) })
}

func (s *projectStore) ListByClient(ctx context.Context, clientID string) ([]core.Project, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("client_id", clientID) })
}

func (s *projectStore) list(ctx context.Context, scope func(*Query) *Query) ([]core.Project, error) {
	var projects []core.Project
	err := scope(s.c.From("projects").Select(projectListColumns)).
		Order("created_at", false).
		Get(ctx, &projects)
	return projects, err
}

// Get loads one project with its client, tasks and transactions
// embedded; the detail view renders entirely from this one response.
func (s *projectStore) Get(ctx context.Context, id string) (*core.Project, error) {
	var project core.Project
	err := s.c.From("projects").
		Select("*, clients(*), tasks(*), transactions(*)").
		Eq("id", id).
		Single().
		Get(ctx, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectStore) Create(ctx context.Context, in core.ProjectInput) (*core.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var project core.Project
	if err := s.c.From("projects").Insert(ctx, in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Project, error) {
	if err := patch.ValidateProject(); err != nil {
		return nil, err
	}
	var project core.Project
	if err := s.c.From("projects").Eq("id", id).Update(ctx, patch, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.c.From("projects"), id)
}

type taskStore struct {
	c *Client
}

const taskListColumns = "*, projects(*)"

func (s *taskStore) List(ctx context.Context) ([]core.Task, error) {
	return s.list(ctx, func(q *Query) *Query { return q })
}

func (s *taskStore) ListByArea(ctx context.Context, area core.Area) ([]core.Task, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("area", area) })
}

func (s *taskStore) ListByProject(ctx context.Context, projectID string) ([]core.Task, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("project_id", projectID) })
}

func (s *taskStore) list(ctx context.Context, scope func(*Query) *Query) ([]core.Task, error) {
	var tasks []core.Task
	err := scope(s.c.From("tasks").Select(taskListColumns)).
		Order("created_at", false).
		Get(ctx, &tasks)
	return tasks, err
}

func (s *taskStore) Get(ctx context.Context, id string) (*core.Task, error) {
	var task core.Task
	err := s.c.From("tasks").
		Select(taskListColumns).
		Eq("id", id).
		Single().
		Get(ctx, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *taskStore) Create(ctx context.Context, in core.TaskInput) (*core.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var task core.Task
	if err := s.c.From("tasks").Insert(ctx, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *taskStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Task, error) {
	if err := patch.ValidateTask(); err != nil {
		return nil, err
	}
	var task core.Task
	if err := s.c.From("tasks").Eq("id", id).Update(ctx, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.c.From("tasks"), id)
}

type transactionStore struct {
	c *Client
}

const transactionListColumns = "*, clients(*), projects(*)"

func (s *transactionStore) List(ctx context.Context) ([]core.Transaction, error) {
	return s.list(ctx, func(q *Query) *Query { return q })
}

func (s *transactionStore) ListByArea(ctx context.Context, area core.Area) ([]core.Transaction, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("area", area) })
}

func (s *transactionStore) ListByDateRange(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	return s.list(ctx, func(q *Query) *Query {
		return q.Gte("date", from.String()).Lte("date", to.String())
	})
}

func (s *transactionStore) list(ctx context.Context, scope func(*Query) *Query) ([]core.Transaction, error) {
	var transactions []core.Transaction
	err := scope(s.c.From("transactions").Select(transactionListColumns)).
		Order("date", false).
		Order("created_at", false).
		Get(ctx, &transactions)
	return transactions, err
}

func (s *transactionStore) Get(ctx context.Context, id string) (*core.Transaction, error) {
	var tx core.Transaction
	err := s.c.From("transactions").
		Select(transactionListColumns).
		Eq("id", id).
		Single().
		Get(ctx, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *transactionStore) Create(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var tx core.Transaction
	if err := s.c.From("transactions").Insert(ctx, in, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *transactionStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Transaction, error) {
	if err := patch.ValidateTransaction(); err != nil {
		return nil, err
	}
	var tx core.Transaction
	if err := s.c.From("transactions").Eq("id", id).Update(ctx, patch, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.c.From("transactions"), id)
}

type proposalStore struct {
	c *Client
}

const proposalListColumns = "*, clients(*)"

func (s *proposalStore) List(ctx context.Context) ([]core.Proposal, error) {
	return s.list(ctx, func(q *Query) *Query { return q })
}

func (s *proposalStore) ListByClient(ctx context.Context, clientID string) ([]core.Proposal, error) {
	return s.list(ctx, func(q *Query) *Query { return q.Eq("client_id", clientID) })
}

func (s *proposalStore) list(ctx context.Context, scope func(*Query) *Query) ([]core.Proposal, error) {
	var proposals []core.Proposal
	err := scope(s.c.From("proposals").Select(proposalListColumns)).
		Order("created_at", false).
		Get(ctx, &proposals)
	return proposals, err
}

func (s *proposalStore) Get(ctx context.Context, id string) (*core.Proposal, error) {
	var proposal core.Proposal
	err := s.c.From("proposals").
		Select(proposalListColumns).
		Eq("id", id).
		Single().
		Get(ctx, &proposal)
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *proposalStore) Create(ctx context.Context, in core.ProposalInput) (*core.Proposal, error) {
	in.Normalize(time.Now())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var proposal core.Proposal
	if err := s.c.From("proposals").Insert(ctx, in, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *proposalStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Proposal, error) {
	if err := patch.ValidateProposal(); err != nil {
		return nil, err
	}
	var proposal core.Proposal
	if err := s.c.From("proposals").Eq("id", id).Update(ctx, patch, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *proposalStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.c.From("proposals"), id)
}
