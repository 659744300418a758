package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/sling/internal/adapters/artifacts"
	"github.com/trebuchet-org/sling/internal/adapters/blockchain"
	"github.com/trebuchet-org/sling/internal/adapters/fs"
	"github.com/trebuchet-org/sling/internal/adapters/interactive"
	"github.com/trebuchet-org/sling/internal/adapters/node"
	"github.com/trebuchet-org/sling/internal/adapters/plan"
	"github.com/trebuchet-org/sling/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/sling/internal/adapters/repository/migrations"
	"github.com/trebuchet-org/sling/internal/adapters/senders"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	migrations.NewFileStateStoreFromConfig,
	wire.Bind(new(usecase.MigrationStateStore), new(*migrations.FileStateStore)),

	artifacts.NewRepositoryFromConfig,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	plan.NewYAMLLoader,
	wire.Bind(new(usecase.PlanLoader), new(*plan.YAMLLoader)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	fs.NewProjectWriterAdapter,
	wire.Bind(new(usecase.ProjectWriter), new(*fs.ProjectWriterAdapter)),
)

// BlockchainSet provides go-ethereum based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),
	wire.Bind(new(senders.AccountLister), new(*blockchain.Client)),

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	blockchain.NewEncoder,
	wire.Bind(new(usecase.ArgumentEncoder), new(*blockchain.Encoder)),

	senders.NewResolver,
	wire.Bind(new(usecase.SenderResolver), new(*senders.Resolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.NewNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// NodeSet provides the local development chain manager
var NodeSet = wire.NewSet(
	node.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*node.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
	NodeSet,
)
