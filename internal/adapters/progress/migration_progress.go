package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// MigrationProgress prints a header per migration and its outcome as the run goes
type MigrationProgress struct {
	spinner *SpinnerProgressReporter
	out     io.Writer
}

// NewMigrationProgress creates a progress sink for `sling migrate`
func NewMigrationProgress() *MigrationProgress {
	return &MigrationProgress{
		spinner: NewSpinnerProgressReporter(),
		out:     os.Stdout,
	}
}

// OnProgress renders migration boundaries and forwards spinner events
func (p *MigrationProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StageConnected:
		p.spinner.Stop()
		if chain, ok := event.Metadata.(*domain.ChainInfo); ok {
			fmt.Fprintf(p.out, "Connected to chain %d (network id %s)\n", chain.ChainID, chain.NetworkID)
		}
	case usecase.StageMigrationStarting:
		p.spinner.Stop()
		if step, ok := event.Metadata.(*usecase.ExecutionStep); ok {
			p.header(step.Migration, event.Current, event.Total)
		}
	case usecase.StageMigrationCompleted:
		p.spinner.Stop()
		if res, ok := event.Metadata.(*usecase.MigrationStepResult); ok {
			p.outcome(res, p.spinner.Elapsed())
		}
	}
	p.spinner.OnProgress(ctx, event)
}

// Info prints an info message
func (p *MigrationProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error prints an error message
func (p *MigrationProgress) Error(message string) {
	p.spinner.Error(message)
}

// Stop halts the spinner if it is running
func (p *MigrationProgress) Stop() {
	p.spinner.Stop()
}

func (p *MigrationProgress) header(m *domain.Migration, current, total int) {
	title := m.DisplayName()
	fmt.Fprintln(p.out)
	color.New(color.Bold).Fprintf(p.out, "%s", title)
	if total > 0 {
		color.New(color.Faint).Fprintf(p.out, " [%d/%d]", current, total)
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, strings.Repeat("=", len(title)))
}

func (p *MigrationProgress) outcome(res *usecase.MigrationStepResult, elapsed time.Duration) {
	switch res.Status {
	case domain.MigrationCompleted:
		if res.Deployment != nil {
			fmt.Fprintf(p.out, "   > transaction hash: %s\n", res.Deployment.TransactionHash)
			fmt.Fprintf(p.out, "   > block number:     %d\n", res.Deployment.BlockNumber)
		}
		fmt.Fprintf(p.out, "   > gas used:         %d\n", res.GasUsed)
		color.New(color.FgGreen).Fprintf(p.out, "   > completed in %s\n", elapsed.Round(time.Millisecond))
	case domain.MigrationSkipped:
		color.New(color.FgYellow).Fprintln(p.out, "   > skipped, prerequisites missing")
	case domain.MigrationDryRun:
		color.New(color.Faint).Fprintln(p.out, "   > dry run, nothing sent")
	}
}

var _ usecase.ProgressSink = (*MigrationProgress)(nil)
