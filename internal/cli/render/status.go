package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// StatusRenderer renders the migration state of a network
type StatusRenderer struct {
	out io.Writer
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer) *StatusRenderer {
	return &StatusRenderer{out: out}
}

// Render prints one row per migration
func (r *StatusRenderer) Render(result *usecase.MigrationStatusResult) error {
	headerStyle.Fprintf(r.out, "Migrations on %s (chain %d)\n", result.Network.Name, result.Chain.ChainID)
	faintStyle.Fprintf(r.out, "%s\n\n", getRelativePath(result.PlanPath))

	t := newTable()
	t.AppendHeader(table.Row{"#", "MIGRATION", "CONTRACT", "REQUIRES", "STATUS", "COMPLETED AT"})
	for _, e := range result.Entries {
		completedAt := ""
		if e.Record != nil && !e.Record.CompletedAt.IsZero() {
			completedAt = e.Record.CompletedAt.Local().Format("2006-01-02 15:04:05")
		}
		requires := strings.Join(e.Requires, ", ")
		if requires == "" {
			requires = "-"
		}
		t.AppendRow(table.Row{
			e.Migration.Number,
			e.Migration.DisplayName(),
			nameStyle.Sprint(e.Migration.Contract),
			requires,
			coloredStatus(e.Status),
			faintStyle.Sprint(completedAt),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d completed, %d pending\n", result.Completed, result.Pending)
	return nil
}
