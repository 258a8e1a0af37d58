package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestionale/internal/core"
	"gestionale/internal/store"
	"gestionale/internal/store/memory"
)

func ptr[T any](v T) *T { return &v }

func TestAverageMargin(t *testing.T) {
	t.Run("excludes projects without a margin", func(t *testing.T) {
		projects := []core.Project{
			{Margin: ptr(50.0)},
			{Margin: nil},
			{Margin: ptr(30.0)},
		}
		got := AverageMargin(projects)
		if got == nil || *got != 40.0 {
			t.Fatalf("expected 40, got %v", got)
		}
	})

	t.Run("nil when no project has a margin", func(t *testing.T) {
		if got := AverageMargin([]core.Project{{}, {}}); got != nil {
			t.Fatalf("expected nil, got %v", *got)
		}
	})

	t.Run("nil on empty input", func(t *testing.T) {
		if got := AverageMargin(nil); got != nil {
			t.Fatalf("expected nil, got %v", *got)
		}
	})
}

func TestRevenueByArea(t *testing.T) {
	transactions := []core.Transaction{
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 100000}, Area: core.AreaStudio},
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 50000}, Area: core.AreaStudio},
		{Type: core.TransactionExpense, Amount: core.Money{Cents: 99999}, Area: core.AreaStudio},
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 20000}, Area: core.AreaPrizm},
	}
	got := RevenueByArea(transactions)

	if got[core.AreaStudio].Cents != 150000 {
		t.Fatalf("studio: expected 150000 cents, got %d", got[core.AreaStudio].Cents)
	}
	if got[core.AreaPrizm].Cents != 20000 {
		t.Fatalf("prizm: expected 20000 cents, got %d", got[core.AreaPrizm].Cents)
	}
	if got[core.AreaStatale].Cents != 0 {
		t.Fatalf("statale should be present with zero, got %d", got[core.AreaStatale].Cents)
	}
	if len(got) != 3 {
		t.Fatalf("expected exactly the three areas, got %d entries", len(got))
	}
}

func TestMonthlyRevenue(t *testing.T) {
	transactions := []core.Transaction{
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 1000}, Date: core.NewDate(2024, 1, 10)},
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 2000}, Date: core.NewDate(2024, 1, 20)},
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 11, 3)},
		{Type: core.TransactionIncome, Amount: core.Money{Cents: 7000}, Date: core.NewDate(2023, 11, 3)}, // previous year
		{Type: core.TransactionExpense, Amount: core.Money{Cents: 9000}, Date: core.NewDate(2024, 1, 5)},
	}
	points := MonthlyRevenue(transactions, 2024)

	if len(points) != 12 {
		t.Fatalf("expected 12 points, got %d", len(points))
	}
	if points[0].Month != time.January || points[0].Revenue.Cents != 3000 {
		t.Fatalf("january: %+v", points[0])
	}
	if points[10].Revenue.Cents != 5000 {
		t.Fatalf("november: %+v", points[10])
	}
	if points[5].Revenue.Cents != 0 {
		t.Fatalf("june should be zero: %+v", points[5])
	}
}

func TestCountActiveClients(t *testing.T) {
	clients := []core.Client{
		{Status: core.ClientLead},
		{Status: core.ClientProspect},
		{Status: core.ClientActive},
		{Status: core.ClientLoyal},
	}
	if got := CountActiveClients(clients); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	b := memory.New()
	stores := b.Stores()

	client, _ := stores.Clients.Create(ctx, core.ClientInput{Name: "Marco Rossi", Status: core.ClientActive})
	margin := 60.0
	stores.Projects.Create(ctx, core.ProjectInput{
		ClientID: &client.ID,
		Name:     "Matrimonio Rossi",
		Type:     core.ProjectWedding,
		Status:   core.ProjectActive,
		Area:     core.AreaStudio,
		Margin:   &margin,
	})
	stores.Transactions.Create(ctx, core.TransactionInput{
		Type: core.TransactionIncome, Amount: core.Money{Cents: 100000},
		Category: "Acconto", Date: core.Today(time.Now()), Area: core.AreaStudio,
	})
	stores.Transactions.Create(ctx, core.TransactionInput{
		Type: core.TransactionExpense, Amount: core.Money{Cents: 25000},
		Category: "Attrezzatura", Date: core.Today(time.Now()), Area: core.AreaStudio,
	})

	svc := NewDashboardService(stores, nil)
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRevenue.Cents != 100000 {
		t.Fatalf("revenue: %d", stats.TotalRevenue.Cents)
	}
	if stats.TotalExpenses.Cents != 25000 {
		t.Fatalf("expenses: %d", stats.TotalExpenses.Cents)
	}
	if stats.ActiveProjects != 1 || stats.ActiveClients != 1 {
		t.Fatalf("counters: projects=%d clients=%d", stats.ActiveProjects, stats.ActiveClients)
	}
	if stats.AverageMargin == nil || *stats.AverageMargin != 60.0 {
		t.Fatalf("margin: %v", stats.AverageMargin)
	}
}

type failingTransactions struct {
	store.TransactionStore
}

func (failingTransactions) List(ctx context.Context) ([]core.Transaction, error) {
	return nil, &core.TransportError{Err: errors.New("connection reset")}
}

func TestDashboardStatsFailsWhole(t *testing.T) {
	b := memory.New()
	stores := b.Stores()
	stores.Transactions = failingTransactions{}

	svc := NewDashboardService(stores, nil)
	_, err := svc.Stats(context.Background())
	if err == nil {
		t.Fatal("one failing fetch must fail the whole aggregate")
	}
	var te *core.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected the underlying transport error, got %v", err)
	}
}
