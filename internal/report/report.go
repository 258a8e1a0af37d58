// Package report renders the dashboard aggregate as a plain-text
// summary suitable for download or mail.
package report

import (
	"fmt"
	"strings"
	"time"

	"gestionale/internal/core"
	"gestionale/internal/services"
)

// Render formats the stats into the downloadable text report.
func Render(stats *services.Stats, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Report gestionale — %s\n", now.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	fmt.Fprintf(&b, "Entrate totali:   %s\n", stats.TotalRevenue.Format())
	fmt.Fprintf(&b, "Uscite totali:    %s\n", stats.TotalExpenses.Format())
	net := core.Money{Cents: stats.TotalRevenue.Cents - stats.TotalExpenses.Cents}
	fmt.Fprintf(&b, "Saldo:            %s\n\n", net.Format())

	fmt.Fprintf(&b, "Progetti attivi:  %d\n", stats.ActiveProjects)
	fmt.Fprintf(&b, "Clienti attivi:   %d\n", stats.ActiveClients)
	if stats.AverageMargin != nil {
		fmt.Fprintf(&b, "Margine medio:    %.1f%%\n", *stats.AverageMargin)
	} else {
		b.WriteString("Margine medio:    n/d\n")
	}

	b.WriteString("\nEntrate per area\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, area := range core.Areas {
		fmt.Fprintf(&b, "  %-10s %s\n", area, stats.RevenueByArea[area].Format())
	}

	fmt.Fprintf(&b, "\nEntrate mensili %d\n", now.Year())
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, p := range stats.MonthlyRevenue {
		fmt.Fprintf(&b, "  %-10s %s\n", p.Month.String(), p.Revenue.Format())
	}

	return b.String()
}
