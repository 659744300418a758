package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, id string) (*domain.Deployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.Deployment, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *domain.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

// MockStateStore is a mock implementation of MigrationStateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Load(ctx context.Context, network string, chainID uint64) (*domain.MigrationState, error) {
	args := m.Called(ctx, network, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationState), args.Error(1)
}

func (m *MockStateStore) MarkCompleted(ctx context.Context, network string, chainID uint64, record *domain.MigrationRecord) error {
	return m.Called(ctx, network, chainID, record).Error(0)
}

func (m *MockStateStore) Unmark(ctx context.Context, network string, chainID uint64, number int) error {
	return m.Called(ctx, network, chainID, number).Error(0)
}

func (m *MockStateStore) Reset(ctx context.Context, network string, chainID uint64) error {
	return m.Called(ctx, network, chainID).Error(0)
}

// MockArtifacts is a mock implementation of ArtifactRepository
type MockArtifacts struct {
	mock.Mock
}

func (m *MockArtifacts) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

// MockPlanLoader is a mock implementation of PlanLoader
type MockPlanLoader struct {
	mock.Mock
}

func (m *MockPlanLoader) Load(ctx context.Context) (*domain.MigrationPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationPlan), args.Error(1)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) Connect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainInfo), args.Error(1)
}

func (m *MockChainClient) Accounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

func (m *MockChainClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeployResult), args.Error(1)
}

// passthroughEncoder returns values unchanged
type passthroughEncoder struct{}

func (passthroughEncoder) Coerce(inputs abi.Arguments, values []any) ([]any, error) {
	return values, nil
}

// MockSenders is a mock implementation of SenderResolver
type MockSenders struct {
	mock.Mock
}

func (m *MockSenders) Resolve(ctx context.Context, from string) (*domain.Sender, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sender), args.Error(1)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) Resolve(name string) (*domain.Network, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Network), args.Error(1)
}

func (m *MockNetworkResolver) Names() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockNetworkResolver) Detect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainInfo), args.Error(1)
}

func (m *MockNetworkResolver) Forget(rpcURL string) {
	m.Called(rpcURL)
}

// MockProgressSink records progress events and messages
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, 0, len(m.events))
	for _, e := range m.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func developmentNetwork() *domain.Network {
	return &domain.Network{
		Name:      "development",
		RPCURL:    "http://127.0.0.1:7545",
		NetworkID: "5777",
	}
}

func runtimeConfig(network *domain.Network) *config.RuntimeConfig {
	cfg := &config.RuntimeConfig{
		ProjectRoot: "/project",
		DataDir:     "/project/.sling",
		NetworkName: "development",
		Network:     network,
		Project:     &config.ProjectConfig{},
	}
	cfg.Project.ApplyDefaults()
	return cfg
}

// MockLocalConfigStore is an in-memory LocalConfigStore
type MockLocalConfigStore struct {
	cfg     *config.LocalConfig
	saved   bool
	saveErr error
}

func (m *MockLocalConfigStore) Exists() bool { return m.cfg != nil }

func (m *MockLocalConfigStore) Path() string { return "/project/.sling/config.local.json" }

func (m *MockLocalConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	if m.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	copied := *m.cfg
	return &copied, nil
}

func (m *MockLocalConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cfg = cfg
	m.saved = true
	return nil
}

// MockSelector is a mock implementation of DeploymentSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectDeployment(ctx context.Context, deployments []*domain.Deployment, prompt string) (*domain.Deployment, error) {
	args := m.Called(ctx, deployments, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deployment), args.Error(1)
}

// memoryWriter is an in-memory ProjectWriter
type memoryWriter struct {
	files map[string][]byte
	dirs  []string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: make(map[string][]byte)}
}

func (w *memoryWriter) FileExists(path string) bool {
	_, ok := w.files[path]
	return ok
}

func (w *memoryWriter) WriteFile(path string, content []byte) error {
	w.files[path] = content
	return nil
}

func (w *memoryWriter) EnsureDir(path string) error {
	w.dirs = append(w.dirs, path)
	return nil
}

// MockNodeManager is a mock implementation of NodeManager
type MockNodeManager struct {
	mock.Mock
}

func (m *MockNodeManager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockNodeManager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockNodeManager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeStatus), args.Error(1)
}
