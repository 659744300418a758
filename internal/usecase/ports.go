package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, id string) (*domain.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *domain.Deployment) error
}

// MigrationStateStore tracks which migrations completed on a network
type MigrationStateStore interface {
	Load(ctx context.Context, network string, chainID uint64) (*domain.MigrationState, error)
	MarkCompleted(ctx context.Context, network string, chainID uint64, record *domain.MigrationRecord) error
	Unmark(ctx context.Context, network string, chainID uint64, number int) error
	Reset(ctx context.Context, network string, chainID uint64) error
}

// ArtifactRepository provides compiled contracts
type ArtifactRepository interface {
	Get(ctx context.Context, name string) (*domain.Artifact, error)
}

// PlanLoader reads the migrations file
type PlanLoader interface {
	Load(ctx context.Context) (*domain.MigrationPlan, error)
}

// ChainClient talks to the node of the active network
type ChainClient interface {
	Connect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
}

// ContractDeployer sends contract creations and waits for them
type ContractDeployer interface {
	Deploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error)
}

// ArgumentEncoder coerces plan values to the Go types the ABI packer expects
type ArgumentEncoder interface {
	Coerce(inputs abi.Arguments, values []any) ([]any, error)
}

// SenderResolver turns a `from` reference into a sender
type SenderResolver interface {
	Resolve(ctx context.Context, from string) (*domain.Sender, error)
}

// NetworkResolver resolves networks from the project configuration
type NetworkResolver interface {
	Resolve(name string) (*domain.Network, error)
	Names() []string
	Detect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error)
	Forget(rpcURL string)
}

// DeploymentSelector lets the user pick one deployment
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*domain.Deployment, prompt string) (*domain.Deployment, error)
}

// LocalConfigStore persists the local configuration
type LocalConfigStore interface {
	Exists() bool
	Path() string
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
}

// ProjectWriter scaffolds project files
type ProjectWriter interface {
	FileExists(path string) bool
	WriteFile(path string, content []byte) error
	EnsureDir(path string) error
}

// NodeManager runs a local development chain
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
}

// Progress tracking interfaces

// Progress stages reported by the use cases
const (
	StageConnecting         = "connecting"
	StageConnected          = "connected"
	StageMigrationStarting  = "migration_starting"
	StageDeploying          = "deploying"
	StageMigrationCompleted = "migration_completed"
	StageLoading            = "loading"
	StageComplete           = "complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
