package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewNodeCmd creates the node command with its subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local development chain",
		Long: `Run anvil on the host and port of a network declared in sling.toml.
The node's pid and log files live in .sling/.`,
	}

	cmd.AddCommand(
		newNodeOperationCmd("start", "Start the local node"),
		newNodeOperationCmd("stop", "Stop the local node"),
		newNodeOperationCmd("restart", "Restart the local node"),
		newNodeOperationCmd("status", "Show local node status"),
	)

	return cmd
}

func newNodeOperationCmd(operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   operation + " [network]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ManageNodeParams{Operation: operation}
			if len(args) > 0 {
				params.Network = args[0]
			}

			result, err := app.ManageNode.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewNodeRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
