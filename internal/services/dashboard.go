package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gestionale/internal/core"
	"gestionale/internal/store"
)

// Stats is the aggregate the dashboard renders. All figures derive
// from full snapshots of the underlying tables at read time; nothing
// here is stored.
type Stats struct {
	TotalRevenue   core.Money              `json:"total_revenue"`
	TotalExpenses  core.Money              `json:"total_expenses"`
	ActiveProjects int                     `json:"active_projects"`
	ActiveClients  int                     `json:"active_clients"`
	AverageMargin  *float64                `json:"average_margin"`
	RevenueByArea  map[core.Area]core.Money `json:"revenue_by_area"`
	MonthlyRevenue []MonthlyPoint          `json:"monthly_revenue"`
}

// MonthlyPoint is one month of income in the current year.
type MonthlyPoint struct {
	Month   time.Month `json:"month"`
	Revenue core.Money `json:"revenue"`
}

// DashboardService aggregates stats across clients, projects and
// transactions.
type DashboardService struct {
	stores store.Stores
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(stores store.Stores, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		stores: stores,
		logger: logger,
		now:    time.Now,
	}
}

// Stats fetches the three source tables concurrently and reduces them.
// If any fetch fails the whole aggregate fails; a dashboard built from
// half the data would silently misreport totals.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	var (
		clients      []core.Client
		projects     []core.Project
		transactions []core.Transaction
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.stores.Clients.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.stores.Projects.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.stores.Transactions.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := Compute(clients, projects, transactions, s.now())
	s.logger.Debug("computed dashboard stats",
		"clients", len(clients),
		"projects", len(projects),
		"transactions", len(transactions),
		"duration", time.Since(start))
	return &stats, nil
}

// Compute reduces full table snapshots into dashboard stats. Pure.
func Compute(clients []core.Client, projects []core.Project, transactions []core.Transaction, now time.Time) Stats {
	return Stats{
		TotalRevenue:   TotalByType(transactions, core.TransactionIncome),
		TotalExpenses:  TotalByType(transactions, core.TransactionExpense),
		ActiveProjects: CountActiveProjects(projects),
		ActiveClients:  CountActiveClients(clients),
		AverageMargin:  AverageMargin(projects),
		RevenueByArea:  RevenueByArea(transactions),
		MonthlyRevenue: MonthlyRevenue(transactions, now.Year()),
	}
}

// TotalByType sums the amounts of all transactions of one type.
func TotalByType(transactions []core.Transaction, typ core.TransactionType) core.Money {
	var total core.Money
	for _, tx := range transactions {
		if tx.Type == typ {
			total.Cents += tx.Amount.Cents
		}
	}
	return total
}

// CountActiveProjects counts projects currently in the active status.
func CountActiveProjects(projects []core.Project) int {
	n := 0
	for _, p := range projects {
		if p.Status == core.ProjectActive {
			n++
		}
	}
	return n
}

// CountActiveClients counts clients with a live business relationship,
// which covers both the active and loyal statuses.
func CountActiveClients(clients []core.Client) int {
	n := 0
	for _, c := range clients {
		if c.Status == core.ClientActive || c.Status == core.ClientLoyal {
			n++
		}
	}
	return n
}

// AverageMargin averages the margins of projects that have one.
// Projects without a margin are excluded from the denominator; with no
// margins at all the average is nil, not zero.
func AverageMargin(projects []core.Project) *float64 {
	var sum float64
	n := 0
	for _, p := range projects {
		if p.Margin != nil {
			sum += *p.Margin
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// RevenueByArea sums income per area. Expenses never appear here.
// Every area is present in the result even with zero income.
func RevenueByArea(transactions []core.Transaction) map[core.Area]core.Money {
	out := make(map[core.Area]core.Money, len(core.Areas))
	for _, a := range core.Areas {
		out[a] = core.Money{}
	}
	for _, tx := range transactions {
		if tx.Type != core.TransactionIncome {
			continue
		}
		m := out[tx.Area]
		m.Cents += tx.Amount.Cents
		out[tx.Area] = m
	}
	return out
}

// MonthlyRevenue buckets the year's income by calendar month. The
// result always has twelve points, January first.
func MonthlyRevenue(transactions []core.Transaction, year int) []MonthlyPoint {
	points := make([]MonthlyPoint, 12)
	for i := range points {
		points[i].Month = time.Month(i + 1)
	}
	for _, tx := range transactions {
		if tx.Type != core.TransactionIncome || tx.Date.Year() != year {
			continue
		}
		points[tx.Date.Month()-1].Revenue.Cents += tx.Amount.Cents
	}
	return points
}
