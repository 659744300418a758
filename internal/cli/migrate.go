package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var params usecase.RunMigrationsParams

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run pending migrations",
		Long: `Run the migrations listed in migrations.yaml against the selected network,
in order, skipping the ones already completed there.

A migration whose prerequisites are missing (for example a referenced
contract that was never deployed) is skipped and retried on the next run.
With --strict, skipped migrations make the command fail.`,
		Example: `  # Run pending migrations on the configured network
  sling migrate

  # Show what would be deployed without sending anything
  sling migrate --dry-run

  # Re-run migrations 2 through 4 on the test network
  sling migrate --reset --from 2 --to 4 -n test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.RunMigrations.Run(cmd.Context(), params)
			if result != nil {
				renderer := render.NewMigrateRenderer(cmd.OutOrStdout())
				write := renderer.Render
				if app.Config.JSON {
					write = renderer.RenderJSON
				}
				if err := write(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Resolve and encode migrations without sending transactions")
	cmd.Flags().BoolVar(&params.Reset, "reset", false, "Run migrations even if they already completed")
	cmd.Flags().IntVar(&params.From, "from", 0, "First migration number to run")
	cmd.Flags().IntVar(&params.To, "to", 0, "Last migration number to run")
	cmd.Flags().BoolVar(&params.Strict, "strict", false, "Fail when a migration is skipped")

	return cmd
}
