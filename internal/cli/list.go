package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var params usecase.ListDeploymentsParams

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from registry",
		Long: `List deployments recorded in .sling/deployments.json.

By default only deployments on the selected network are shown.`,
		Example: `  # List deployments on the configured network
  sling list

  # List every Storefront deployment on every network
  sling list --contract Storefront --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.ContractName, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVar(&params.AllNetworks, "all", false, "Include deployments on every network")

	return cmd
}
