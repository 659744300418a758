package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [contract|address]",
		Short: "Show detailed deployment information",
		Long: `Show a deployment from the registry by contract name or address.

Without an argument, or when the name matches several deployments,
an interactive picker is shown unless --non-interactive is set.`,
		Example: `  sling show Storefront
  sling show 0x5FbDB2315678afecb367f032d93F642f64180aa3
  sling show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{}
			if len(args) > 0 {
				params.Ref = args[0]
			}

			deployment, err := app.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), deployment)
			}
			return render.NewDeploymentRenderer(cmd.OutOrStdout()).Render(deployment)
		},
	}
}
