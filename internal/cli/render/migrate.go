package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// MigrateRenderer renders the summary of a migration run
type MigrateRenderer struct {
	out io.Writer
}

// NewMigrateRenderer creates a new migrate renderer
func NewMigrateRenderer(out io.Writer) *MigrateRenderer {
	return &MigrateRenderer{out: out}
}

// Render prints the run summary; per-migration output was streamed while running
func (r *MigrateRenderer) Render(result *usecase.RunMigrationsResult) error {
	if result == nil {
		return nil
	}

	fmt.Fprintln(r.out)
	if len(result.Steps) == 0 {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Network %s is up to date (%d migrations)", result.Network.Name, result.UpToDate)))
		return nil
	}

	headerStyle.Fprintln(r.out, "Summary")
	fmt.Fprintln(r.out, strings.Repeat("=", 7))
	fmt.Fprintf(r.out, "> Network:      %s (chain %d, network id %s)\n", result.Network.Name, result.Chain.ChainID, result.Chain.NetworkID)
	if result.DryRun {
		fmt.Fprintf(r.out, "> Would deploy: %d\n", countStatus(result.Steps, domain.MigrationDryRun))
	} else {
		fmt.Fprintf(r.out, "> Deployed:     %d\n", result.Deployed)
	}
	fmt.Fprintf(r.out, "> Up to date:   %d\n", result.UpToDate)

	if result.Skipped > 0 {
		fmt.Fprintf(r.out, "> Skipped:      %s\n", warnStyle.Sprintf("%d (%s)", result.Skipped, strings.Join(result.SkippedNames, ", ")))
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("Skipped migrations were not recorded and will run again once their prerequisites are deployed"))
	}

	var gas uint64
	for _, step := range result.Steps {
		gas += step.GasUsed
	}
	if gas > 0 {
		fmt.Fprintf(r.out, "> Total gas:    %d\n", gas)
	}
	if result.DryRun {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, faintStyle.Sprint("Dry run: no transactions were sent and no state was recorded"))
	}

	return nil
}

// migrationStepJSON is the --json view of one step; senders appear by name and address only
type migrationStepJSON struct {
	Number        int                        `json:"number"`
	Name          string                     `json:"name"`
	Contract      string                     `json:"contract"`
	Status        domain.MigrationStatus     `json:"status"`
	Sender        *senderJSON                `json:"sender,omitempty"`
	Prerequisites []*domain.ResolvedContract `json:"prerequisites,omitempty"`
	Missing       []string                   `json:"missing,omitempty"`
	Deployment    *domain.Deployment         `json:"deployment,omitempty"`
	GasUsed       uint64                     `json:"gasUsed,omitempty"`
}

type senderJSON struct {
	Name    string            `json:"name"`
	Type    domain.SenderType `json:"type"`
	Address string            `json:"address"`
}

type migrateJSON struct {
	Network      *domain.Network      `json:"network"`
	Chain        *domain.ChainInfo    `json:"chain"`
	DryRun       bool                 `json:"dryRun"`
	UpToDate     int                  `json:"upToDate"`
	Deployed     int                  `json:"deployed"`
	Skipped      int                  `json:"skipped"`
	SkippedNames []string             `json:"skippedNames,omitempty"`
	Steps        []*migrationStepJSON `json:"steps"`
}

// RenderJSON writes the run result as JSON without key material
func (r *MigrateRenderer) RenderJSON(result *usecase.RunMigrationsResult) error {
	if result == nil {
		return nil
	}

	view := &migrateJSON{
		Network:      result.Network,
		Chain:        result.Chain,
		DryRun:       result.DryRun,
		UpToDate:     result.UpToDate,
		Deployed:     result.Deployed,
		Skipped:      result.Skipped,
		SkippedNames: result.SkippedNames,
		Steps:        make([]*migrationStepJSON, 0, len(result.Steps)),
	}
	for _, step := range result.Steps {
		v := &migrationStepJSON{
			Status:        step.Status,
			Prerequisites: step.Prerequisites,
			Deployment:    step.Deployment,
			GasUsed:       step.GasUsed,
		}
		if step.Step != nil && step.Step.Migration != nil {
			v.Number = step.Step.Migration.Number
			v.Name = step.Step.Migration.DisplayName()
			v.Contract = step.Step.Migration.Contract
		}
		if step.Sender != nil {
			v.Sender = &senderJSON{
				Name:    step.Sender.Name,
				Type:    step.Sender.Type,
				Address: step.Sender.Address.Hex(),
			}
		}
		for _, err := range step.Missing {
			v.Missing = append(v.Missing, err.Error())
		}
		view.Steps = append(view.Steps, v)
	}

	return JSON(r.out, view)
}

func countStatus(steps []*usecase.MigrationStepResult, status domain.MigrationStatus) int {
	n := 0
	for _, s := range steps {
		if s.Status == status {
			n++
		}
	}
	return n
}
