package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/adapters/progress"
	"github.com/trebuchet-org/sling/internal/app"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// session holds what PersistentPreRunE sets up for one command
type session struct {
	app    *app.App
	sink   usecase.ProgressSink
	cancel context.CancelFunc
}

// close stops the progress output and releases the app; safe to call twice
func (s *session) close() {
	if stopper, ok := s.sink.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.app != nil {
		s.app.Close()
	}
	*s = session{}
}

// Execute runs the root command and cleans up even when the command fails
func Execute(ctx context.Context) error {
	s := &session{}
	defer s.close()
	return newRootCmd(s).ExecuteContext(ctx)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&session{})
}

func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sling",
		Short: "Numbered contract migrations for EVM development chains",
		Long: `Sling runs numbered contract migrations against a configured network,
records which ones completed, and keeps a registry of what was deployed where.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// init scaffolds a project in the working directory
				if cmd.Name() != "init" {
					return err
				}
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			s.sink = newProgressSink(cmd, v.GetBool("json"))
			appInstance, err := app.InitApp(v, s.sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			s.app = appInstance

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., development, test)")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine readable JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewMigrateCmd(),
		NewStatusCmd(),
		NewListCmd(),
		NewShowCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewInitCmd(),
		NewNetworksCmd(),
		NewConfigCmd(),
		NewNodeCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports commands that run without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// newProgressSink picks how use cases report progress for cmd
func newProgressSink(cmd *cobra.Command, jsonOutput bool) usecase.ProgressSink {
	switch {
	case jsonOutput:
		return usecase.NopProgress{}
	case cmd.Name() == "migrate":
		return progress.NewMigrationProgress()
	default:
		return progress.NewSpinnerProgressReporter()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
