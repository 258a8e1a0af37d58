package memory

import (
	"context"
	"fmt"

	"gestionale/internal/core"
)

// Seed loads a small demo dataset so the application shows something
// meaningful on first run without a hosted backend.
func (b *Backend) Seed(ctx context.Context) error {
	stores := b.Stores()

	client, err := stores.Clients.Create(ctx, core.ClientInput{
		Name:    "Marco Rossi",
		Company: "Rossi Eventi",
		Email:   "marco.rossi@example.it",
		Sector:  "Eventi",
		Status:  core.ClientActive,
		Notes:   "Referenza di Laura, matrimonio giugno",
	})
	if err != nil {
		return fmt.Errorf("seed client: %w", err)
	}

	budget := core.Money{Cents: 350000}
	margin := 45.0
	start := core.NewDate(2024, 5, 1)
	project, err := stores.Projects.Create(ctx, core.ProjectInput{
		ClientID:  &client.ID,
		Name:      "Matrimonio Rossi",
		Type:      core.ProjectWedding,
		Status:    core.ProjectActive,
		Area:      core.AreaStudio,
		Budget:    &budget,
		Margin:    &margin,
		StartDate: &start,
	})
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	due := core.NewDate(2024, 5, 20)
	if _, err := stores.Tasks.Create(ctx, core.TaskInput{
		ProjectID: &project.ID,
		Title:     "Selezione scatti cerimonia",
		Priority:  core.PriorityHigh,
		DueDate:   &due,
		Area:      core.AreaStudio,
	}); err != nil {
		return fmt.Errorf("seed task: %w", err)
	}

	if _, err := stores.Transactions.Create(ctx, core.TransactionInput{
		Type:     core.TransactionIncome,
		Amount:   core.Money{Cents: 100000},
		Category: "Acconto",
		Date:     core.NewDate(2024, 4, 15),
		Area:     core.AreaStudio,
		ClientID: &client.ID,
		ProjectID: &project.ID,
	}); err != nil {
		return fmt.Errorf("seed transaction: %w", err)
	}

	if _, err := stores.Proposals.Create(ctx, core.ProposalInput{
		ClientID: client.ID,
		Title:    "Servizio battesimo autunno",
		Services: []string{"Servizio fotografico", "Album 30x30"},
		Amount:   core.Money{Cents: 80000},
		Status:   core.ProposalSent,
	}); err != nil {
		return fmt.Errorf("seed proposal: %w", err)
	}
	return nil
}
