// Package memory is the self-contained demo backend: the same ports as
// the hosted store, backed by process-local maps. Data lives until the
// process exits. It exists so the application runs end to end without
// a Supabase project, and so tests exercise real store semantics.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gestionale/internal/core"
	"gestionale/internal/store"
)

// Backend holds all five entity maps behind one lock. Rows are stored
// without their join fields; joins are recomputed on every read.
type Backend struct {
	mu   sync.RWMutex
	base time.Time
	seq  int64

	clients      map[string]core.Client
	projects     map[string]core.Project
	tasks        map[string]core.Task
	transactions map[string]core.Transaction
	proposals    map[string]core.Proposal
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		base:         time.Now().UTC(),
		clients:      make(map[string]core.Client),
		projects:     make(map[string]core.Project),
		tasks:        make(map[string]core.Task),
		transactions: make(map[string]core.Transaction),
		proposals:    make(map[string]core.Proposal),
	}
}

// Stores returns the ports view of the backend.
func (b *Backend) Stores() store.Stores {
	return store.Stores{
		Clients:      &clientStore{b},
		Projects:     &projectStore{b},
		Tasks:        &taskStore{b},
		Transactions: &transactionStore{b},
		Proposals:    &proposalStore{b},
	}
}

var (
	_ store.ClientStore      = (*clientStore)(nil)
	_ store.ProjectStore     = (*projectStore)(nil)
	_ store.TaskStore        = (*taskStore)(nil)
	_ store.TransactionStore = (*transactionStore)(nil)
	_ store.ProposalStore    = (*proposalStore)(nil)
)

// stamp hands out strictly increasing timestamps so list ordering is
// deterministic even when rows are created within the same tick.
func (b *Backend) stamp() time.Time {
	b.seq++
	return b.base.Add(time.Duration(b.seq) * time.Millisecond)
}

func (b *Backend) newRecord() core.Record {
	ts := b.stamp()
	return core.Record{ID: uuid.NewString(), CreatedAt: ts, UpdatedAt: ts}
}

// merge applies a sparse patch by round-tripping the row through its
// JSON representation, so patch semantics match the hosted store: only
// supplied columns change, an explicit null clears a column.
func merge[T any](current T, patch core.Patch, updatedAt time.Time) (T, error) {
	var out T
	raw, err := json.Marshal(current)
	if err != nil {
		return out, fmt.Errorf("marshal row: %w", err)
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return out, fmt.Errorf("decode row: %w", err)
	}
	for k, v := range patch {
		row[k] = v
	}
	row["updated_at"] = updatedAt.Format(time.RFC3339Nano)
	merged, err := json.Marshal(row)
	if err != nil {
		return out, fmt.Errorf("marshal merged row: %w", err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, &core.ValidationError{Message: fmt.Sprintf("incompatible column value: %v", err)}
	}
	return out, nil
}

func newestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

type clientStore struct{ b *Backend }

func (s *clientStore) List(ctx context.Context) ([]core.Client, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	out := make([]core.Client, 0, len(s.b.clients))
	for _, c := range s.b.clients {
		out = append(out, c)
	}
	newestFirst(out, func(c core.Client) time.Time { return c.CreatedAt })
	return out, nil
}

func (s *clientStore) Get(ctx context.Context, id string) (*core.Client, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	c, ok := s.b.clients[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

func (s *clientStore) Create(ctx context.Context, in core.ClientInput) (*core.Client, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	c := core.Client{
		Record:         s.b.newRecord(),
		Name:           in.Name,
		Company:        in.Company,
		Email:          in.Email,
		Phone:          in.Phone,
		Sector:         in.Sector,
		Status:         in.Status,
		ActiveChannels: in.ActiveChannels,
		PainPoints:     in.PainPoints,
		Notes:          in.Notes,
	}
	s.b.clients[c.ID] = c
	return &c, nil
}

func (s *clientStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Client, error) {
	if err := patch.ValidateClient(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	current, ok := s.b.clients[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated, err := merge(current, patch, s.b.stamp())
	if err != nil {
		return nil, err
	}
	s.b.clients[id] = updated
	return &updated, nil
}

func (s *clientStore) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.clients[id]; !ok {
		return core.ErrNotFound
	}
	// No cascade: projects, transactions and proposals keep their
	// client_id even after the client row is gone.
	delete(s.b.clients, id)
	return nil
}

type projectStore struct{ b *Backend }

func (s *projectStore) List(ctx context.Context) ([]core.Project, error) {
	return s.list(ctx, func(core.Project) bool { return true })
}

func (s *projectStore) ListByArea(ctx context.Context, area core.Area) ([]core.Project, error) {
	return s.list(ctx, func(p core.Project) bool { return p.Area == area })
}

func (s *projectStore) ListByClient(ctx context.Context, clientID string) ([]core.Project, error) {
	return s.list(ctx, func(p core.Project) bool {
		return p.ClientID != nil && *p.ClientID == clientID
	})
}

func (s *projectStore) list(ctx context.Context, keep func(core.Project) bool) ([]core.Project, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	out := make([]core.Project, 0)
	for _, p := range s.b.projects {
		if keep(p) {
			out = append(out, s.b.withClientJoin(p))
		}
	}
	newestFirst(out, func(p core.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (b *Backend) withClientJoin(p core.Project) core.Project {
	if p.ClientID != nil {
		if c, ok := b.clients[*p.ClientID]; ok {
			p.Client = &c
		}
	}
	return p
}

func (s *projectStore) Get(ctx context.Context, id string) (*core.Project, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	p, ok := s.b.projects[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p = s.b.withClientJoin(p)
	for _, t := range s.b.tasks {
		if t.ProjectID != nil && *t.ProjectID == id {
			p.Tasks = append(p.Tasks, t)
		}
	}
	for _, tx := range s.b.transactions {
		if tx.ProjectID != nil && *tx.ProjectID == id {
			p.Transactions = append(p.Transactions, tx)
		}
	}
	newestFirst(p.Tasks, func(t core.Task) time.Time { return t.CreatedAt })
	newestFirst(p.Transactions, func(tx core.Transaction) time.Time { return tx.CreatedAt })
	return &p, nil
}

func (s *projectStore) Create(ctx context.Context, in core.ProjectInput) (*core.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	p := core.Project{
		Record:      s.b.newRecord(),
		ClientID:    in.ClientID,
		Name:        in.Name,
		Type:        in.Type,
		Status:      in.Status,
		Area:        in.Area,
		Budget:      in.Budget,
		Margin:      in.Margin,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
	s.b.projects[p.ID] = p
	return &p, nil
}

func (s *projectStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Project, error) {
	if err := patch.ValidateProject(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	current, ok := s.b.projects[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated, err := merge(current, patch, s.b.stamp())
	if err != nil {
		return nil, err
	}
	s.b.projects[id] = updated
	return &updated, nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.projects[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.b.projects, id)
	return nil
}

type taskStore struct{ b *Backend }

func (s *taskStore) List(ctx context.Context) ([]core.Task, error) {
	return s.list(ctx, func(core.Task) bool { return true })
}

func (s *taskStore) ListByArea(ctx context.Context, area core.Area) ([]core.Task, error) {
	return s.list(ctx, func(t core.Task) bool { return t.Area == area })
}

func (s *taskStore) ListByProject(ctx context.Context, projectID string) ([]core.Task, error) {
	return s.list(ctx, func(t core.Task) bool {
		return t.ProjectID != nil && *t.ProjectID == projectID
	})
}

func (s *taskStore) list(ctx context.Context, keep func(core.Task) bool) ([]core.Task, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	out := make([]core.Task, 0)
	for _, t := range s.b.tasks {
		if keep(t) {
			out = append(out, s.b.withProjectJoin(t))
		}
	}
	newestFirst(out, func(t core.Task) time.Time { return t.CreatedAt })
	return out, nil
}

func (b *Backend) withProjectJoin(t core.Task) core.Task {
	if t.ProjectID != nil {
		if p, ok := b.projects[*t.ProjectID]; ok {
			t.Project = &p
		}
	}
	return t
}

func (s *taskStore) Get(ctx context.Context, id string) (*core.Task, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	t, ok := s.b.tasks[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	t = s.b.withProjectJoin(t)
	return &t, nil
}

func (s *taskStore) Create(ctx context.Context, in core.TaskInput) (*core.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	t := core.Task{
		Record:         s.b.newRecord(),
		ProjectID:      in.ProjectID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		AssignedTo:     in.AssignedTo,
		EstimatedHours: in.EstimatedHours,
		Tags:           in.Tags,
		Area:           in.Area,
	}
	s.b.tasks[t.ID] = t
	return &t, nil
}

func (s *taskStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Task, error) {
	if err := patch.ValidateTask(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	current, ok := s.b.tasks[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated, err := merge(current, patch, s.b.stamp())
	if err != nil {
		return nil, err
	}
	s.b.tasks[id] = updated
	return &updated, nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.tasks[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.b.tasks, id)
	return nil
}

type transactionStore struct{ b *Backend }

func (s *transactionStore) List(ctx context.Context) ([]core.Transaction, error) {
	return s.list(ctx, func(core.Transaction) bool { return true })
}

func (s *transactionStore) ListByArea(ctx context.Context, area core.Area) ([]core.Transaction, error) {
	return s.list(ctx, func(tx core.Transaction) bool { return tx.Area == area })
}

func (s *transactionStore) ListByDateRange(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	return s.list(ctx, func(tx core.Transaction) bool {
		return !tx.Date.Time.Before(from.Time) && !tx.Date.Time.After(to.Time)
	})
}

func (s *transactionStore) list(ctx context.Context, keep func(core.Transaction) bool) ([]core.Transaction, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	out := make([]core.Transaction, 0)
	for _, tx := range s.b.transactions {
		if keep(tx) {
			out = append(out, s.b.withTransactionJoins(tx))
		}
	}
	// Date descending first, creation time breaks ties.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Time.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (b *Backend) withTransactionJoins(tx core.Transaction) core.Transaction {
	if tx.ClientID != nil {
		if c, ok := b.clients[*tx.ClientID]; ok {
			tx.Client = &c
		}
	}
	if tx.ProjectID != nil {
		if p, ok := b.projects[*tx.ProjectID]; ok {
			tx.Project = &p
		}
	}
	return tx
}

func (s *transactionStore) Get(ctx context.Context, id string) (*core.Transaction, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	tx, ok := s.b.transactions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	tx = s.b.withTransactionJoins(tx)
	return &tx, nil
}

func (s *transactionStore) Create(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	tx := core.Transaction{
		Record:        s.b.newRecord(),
		Type:          in.Type,
		Amount:        in.Amount,
		Category:      in.Category,
		Date:          in.Date,
		Area:          in.Area,
		ClientID:      in.ClientID,
		ProjectID:     in.ProjectID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
	}
	s.b.transactions[tx.ID] = tx
	return &tx, nil
}

func (s *transactionStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Transaction, error) {
	if err := patch.ValidateTransaction(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	current, ok := s.b.transactions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated, err := merge(current, patch, s.b.stamp())
	if err != nil {
		return nil, err
	}
	s.b.transactions[id] = updated
	return &updated, nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.b.transactions, id)
	return nil
}

type proposalStore struct{ b *Backend }

func (s *proposalStore) List(ctx context.Context) ([]core.Proposal, error) {
	return s.list(ctx, func(core.Proposal) bool { return true })
}

func (s *proposalStore) ListByClient(ctx context.Context, clientID string) ([]core.Proposal, error) {
	return s.list(ctx, func(p core.Proposal) bool { return p.ClientID == clientID })
}

func (s *proposalStore) list(ctx context.Context, keep func(core.Proposal) bool) ([]core.Proposal, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	out := make([]core.Proposal, 0)
	for _, p := range s.b.proposals {
		if keep(p) {
			out = append(out, s.b.withProposalJoin(p))
		}
	}
	newestFirst(out, func(p core.Proposal) time.Time { return p.CreatedAt })
	return out, nil
}

func (b *Backend) withProposalJoin(p core.Proposal) core.Proposal {
	if c, ok := b.clients[p.ClientID]; ok {
		p.Client = &c
	}
	return p
}

func (s *proposalStore) Get(ctx context.Context, id string) (*core.Proposal, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	p, ok := s.b.proposals[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p = s.b.withProposalJoin(p)
	return &p, nil
}

func (s *proposalStore) Create(ctx context.Context, in core.ProposalInput) (*core.Proposal, error) {
	in.Normalize(time.Now())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	p := core.Proposal{
		Record:     s.b.newRecord(),
		ClientID:   in.ClientID,
		ProjectID:  in.ProjectID,
		Title:      in.Title,
		Services:   in.Services,
		Amount:     in.Amount,
		Status:     in.Status,
		ValidUntil: in.ValidUntil,
		Discount:   in.Discount,
		Terms:      in.Terms,
		Notes:      in.Notes,
	}
	s.b.proposals[p.ID] = p
	return &p, nil
}

func (s *proposalStore) Update(ctx context.Context, id string, patch core.Patch) (*core.Proposal, error) {
	if err := patch.ValidateProposal(); err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	current, ok := s.b.proposals[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated, err := merge(current, patch, s.b.stamp())
	if err != nil {
		return nil, err
	}
	s.b.proposals[id] = updated
	return &updated, nil
}

func (s *proposalStore) Delete(ctx context.Context, id string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.proposals[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.b.proposals, id)
	return nil
}
