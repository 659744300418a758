//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sling/internal/adapters"
	"github.com/trebuchet-org/sling/internal/adapters/blockchain"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/logging"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,
		wire.Bind(new(ChainCloser), new(*blockchain.Client)),

		// Use cases
		usecase.NewResolveDeployed,
		usecase.NewRunMigrations,
		usecase.NewMigrationStatus,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewInitProject,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
