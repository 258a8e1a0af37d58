// Command seed loads the demo dataset into a hosted backend. It is
// meant for freshly provisioned projects; it never deletes anything.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gestionale/internal/config"
	"gestionale/internal/core"
	"gestionale/internal/supabase"
)

func main() {
	yes := flag.Bool("yes", false, "seed without asking for confirmation")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		fmt.Fprintln(os.Stderr, "SUPABASE_URL and SUPABASE_ANON_KEY must be set")
		os.Exit(1)
	}

	if !*yes && !confirm(cfg.SupabaseURL) {
		fmt.Println("Aborted.")
		return
	}

	client, err := supabase.New(supabase.Config{
		URL:    cfg.SupabaseURL,
		APIKey: cfg.SupabaseAnonKey,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize client:", err)
		os.Exit(1)
	}
	stores := supabase.NewStores(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	demoClient, err := stores.Clients.Create(ctx, core.ClientInput{
		Name:    "Marco Rossi",
		Company: "Rossi Eventi",
		Email:   "marco.rossi@example.it",
		Sector:  "Eventi",
		Status:  core.ClientActive,
		Notes:   "Referenza di Laura, matrimonio giugno",
	})
	if err != nil {
		fail("client", err)
	}

	budget := core.Money{Cents: 350000}
	margin := 45.0
	start := core.NewDate(2024, 5, 1)
	project, err := stores.Projects.Create(ctx, core.ProjectInput{
		ClientID:  &demoClient.ID,
		Name:      "Matrimonio Rossi",
		Type:      core.ProjectWedding,
		Status:    core.ProjectActive,
		Area:      core.AreaStudio,
		Budget:    &budget,
		Margin:    &margin,
		StartDate: &start,
	})
	if err != nil {
		fail("project", err)
	}

	due := core.NewDate(2024, 5, 20)
	if _, err := stores.Tasks.Create(ctx, core.TaskInput{
		ProjectID: &project.ID,
		Title:     "Selezione scatti cerimonia",
		Priority:  core.PriorityHigh,
		DueDate:   &due,
		Area:      core.AreaStudio,
	}); err != nil {
		fail("task", err)
	}

	if _, err := stores.Transactions.Create(ctx, core.TransactionInput{
		Type:      core.TransactionIncome,
		Amount:    core.Money{Cents: 100000},
		Category:  "Acconto",
		Date:      core.NewDate(2024, 4, 15),
		Area:      core.AreaStudio,
		ClientID:  &demoClient.ID,
		ProjectID: &project.ID,
	}); err != nil {
		fail("transaction", err)
	}

	if _, err := stores.Proposals.Create(ctx, core.ProposalInput{
		ClientID: demoClient.ID,
		Title:    "Servizio battesimo autunno",
		Services: []string{"Servizio fotografico", "Album 30x30"},
		Amount:   core.Money{Cents: 80000},
		Status:   core.ProposalSent,
	}); err != nil {
		fail("proposal", err)
	}

	fmt.Println("Demo data loaded.")
}

func confirm(url string) bool {
	fmt.Printf("Seed demo data into %s? [y/N] ", url)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "failed to seed %s: %v\n", what, err)
	os.Exit(1)
}
