package app

import (
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.DeploymentSelector
	Chain    ChainCloser

	// Use cases
	RunMigrations   *usecase.RunMigrations
	MigrationStatus *usecase.MigrationStatus
	ListDeployments *usecase.ListDeployments
	ShowDeployment  *usecase.ShowDeployment
	ListNetworks    *usecase.ListNetworks
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	InitProject     *usecase.InitProject
	ManageNode      *usecase.ManageNode
}

// ChainCloser releases the node connection once a command is done
type ChainCloser interface {
	Close()
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.DeploymentSelector,
	chain ChainCloser,
	runMigrations *usecase.RunMigrations,
	migrationStatus *usecase.MigrationStatus,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	initProject *usecase.InitProject,
	manageNode *usecase.ManageNode,
) (*App, error) {
	return &App{
		Config:          cfg,
		Selector:        selector,
		Chain:           chain,
		RunMigrations:   runMigrations,
		MigrationStatus: migrationStatus,
		ListDeployments: listDeployments,
		ShowDeployment:  showDeployment,
		ListNetworks:    listNetworks,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		InitProject:     initProject,
		ManageNode:      manageNode,
	}, nil
}

// Close releases resources held by adapters
func (a *App) Close() {
	if a.Chain != nil {
		a.Chain.Close()
	}
}
