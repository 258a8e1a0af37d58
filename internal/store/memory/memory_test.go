package memory

import (
	"context"
	"errors"
	"testing"

	"gestionale/internal/core"
)

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	created, err := stores.Clients.Create(ctx, core.ClientInput{Name: "Marco Rossi"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("store must assign id and timestamps: %+v", created.Record)
	}
	if created.Status != core.ClientLead {
		t.Fatalf("expected lead default, got %q", created.Status)
	}

	list, err := stores.Clients.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("created client missing from list: %+v", list)
	}

	if err := stores.Clients.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := stores.Clients.Get(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := stores.Clients.Delete(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestPartialPatchLeavesOtherColumns(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	created, err := stores.Clients.Create(ctx, core.ClientInput{
		Name:  "Marco Rossi",
		Email: "marco@example.it",
		Notes: "primo contatto in fiera",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := stores.Clients.Update(ctx, created.ID, core.Patch{"status": "loyal"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != core.ClientLoyal {
		t.Fatalf("status: %q", updated.Status)
	}
	if updated.Email != created.Email || updated.Notes != created.Notes {
		t.Fatalf("patch touched unrelated columns: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("updated_at should advance")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("created_at must not change on update")
	}
}

func TestPatchNullClearsColumn(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	client, _ := stores.Clients.Create(ctx, core.ClientInput{Name: "Marco Rossi"})
	budget := core.Money{Cents: 100000}
	project, err := stores.Projects.Create(ctx, core.ProjectInput{
		ClientID: &client.ID,
		Name:     "Matrimonio Rossi",
		Type:     core.ProjectWedding,
		Area:     core.AreaStudio,
		Budget:   &budget,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := stores.Projects.Update(ctx, project.ID, core.Patch{"budget": nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Budget != nil {
		t.Fatalf("null should clear the budget, got %+v", updated.Budget)
	}
	if updated.Name != project.Name {
		t.Fatalf("name changed: %q", updated.Name)
	}
}

func TestProjectGetEmbedsRelations(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	client, _ := stores.Clients.Create(ctx, core.ClientInput{Name: "Marco Rossi"})
	project, _ := stores.Projects.Create(ctx, core.ProjectInput{
		ClientID: &client.ID,
		Name:     "Matrimonio Rossi",
		Type:     core.ProjectWedding,
		Area:     core.AreaStudio,
	})
	stores.Tasks.Create(ctx, core.TaskInput{ProjectID: &project.ID, Title: "Selezione scatti"})
	stores.Transactions.Create(ctx, core.TransactionInput{
		Type:      core.TransactionIncome,
		Amount:    core.Money{Cents: 50000},
		Category:  "Acconto",
		Date:      core.NewDate(2024, 4, 15),
		Area:      core.AreaStudio,
		ProjectID: &project.ID,
	})

	got, err := stores.Projects.Get(ctx, project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Client == nil || got.Client.ID != client.ID {
		t.Fatalf("client join missing: %+v", got.Client)
	}
	if len(got.Tasks) != 1 || len(got.Transactions) != 1 {
		t.Fatalf("expected 1 task and 1 transaction, got %d and %d", len(got.Tasks), len(got.Transactions))
	}
}

func TestDeleteClientKeepsChildren(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	client, _ := stores.Clients.Create(ctx, core.ClientInput{Name: "Marco Rossi"})
	project, _ := stores.Projects.Create(ctx, core.ProjectInput{
		ClientID: &client.ID,
		Name:     "Matrimonio Rossi",
		Type:     core.ProjectWedding,
		Area:     core.AreaStudio,
	})

	if err := stores.Clients.Delete(ctx, client.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := stores.Projects.Get(ctx, project.ID)
	if err != nil {
		t.Fatalf("project should survive its client: %v", err)
	}
	if got.ClientID == nil || *got.ClientID != client.ID {
		t.Fatal("project must keep the dangling client_id")
	}
	if got.Client != nil {
		t.Fatal("join to a deleted client must come back empty")
	}
}

func TestTransactionOrderingAndRange(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	mk := func(date core.Date, category string) {
		t.Helper()
		_, err := stores.Transactions.Create(ctx, core.TransactionInput{
			Type:     core.TransactionIncome,
			Amount:   core.Money{Cents: 1000},
			Category: category,
			Date:     date,
			Area:     core.AreaStudio,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mk(core.NewDate(2024, 1, 10), "vecchia")
	mk(core.NewDate(2024, 3, 5), "recente")
	mk(core.NewDate(2024, 3, 5), "recente-bis") // same date, created later

	list, err := stores.Transactions.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	if list[0].Category != "recente-bis" || list[1].Category != "recente" || list[2].Category != "vecchia" {
		t.Fatalf("wrong order: %s, %s, %s", list[0].Category, list[1].Category, list[2].Category)
	}

	ranged, err := stores.Transactions.ListByDateRange(ctx, core.NewDate(2024, 2, 1), core.NewDate(2024, 12, 31))
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(ranged) != 2 {
		t.Fatalf("expected 2 in range, got %d", len(ranged))
	}
}

func TestAreaScopedLists(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	stores.Tasks.Create(ctx, core.TaskInput{Title: "a", Area: core.AreaStudio})
	stores.Tasks.Create(ctx, core.TaskInput{Title: "b", Area: core.AreaPrizm})
	stores.Tasks.Create(ctx, core.TaskInput{Title: "c"}) // no area

	studio, err := stores.Tasks.ListByArea(ctx, core.AreaStudio)
	if err != nil {
		t.Fatalf("ListByArea: %v", err)
	}
	if len(studio) != 1 || studio[0].Title != "a" {
		t.Fatalf("unexpected studio tasks: %+v", studio)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	b := New()
	if err := b.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	stores := b.Stores()

	clients, _ := stores.Clients.List(ctx)
	projects, _ := stores.Projects.List(ctx)
	if len(clients) == 0 || len(projects) == 0 {
		t.Fatal("seed should create demo rows")
	}
	if projects[0].Client == nil {
		t.Fatal("seeded project should join its client")
	}
}
