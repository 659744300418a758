package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// DeploymentsFile is the registry file inside the data dir
const DeploymentsFile = "deployments.json"

// FileRepository stores deployments in a json file in the data dir
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*domain.Deployment
	byAddress   map[uint64]map[string]string // chain -> lower-case address -> id
}

// NewFileRepository creates the repository and loads existing deployments
func NewFileRepository(dataDir string) (*FileRepository, error) {
	r := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*domain.Deployment),
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return r, nil
}

// NewFileRepositoryFromConfig creates the repository for the project's data dir
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return NewFileRepository(cfg.DataDir)
}

func (r *FileRepository) path() string {
	return filepath.Join(r.dataDir, DeploymentsFile)
}

func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.deployments); err != nil {
			return fmt.Errorf("%s: %w", r.path(), err)
		}
	}
	if r.deployments == nil {
		r.deployments = make(map[string]*domain.Deployment)
	}

	r.rebuildLookups()
	return nil
}

// save writes the registry through a temp file and rename
func (r *FileRepository) save() error {
	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(r.deployments, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := r.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, r.path())
}

func (r *FileRepository) rebuildLookups() {
	r.byAddress = make(map[uint64]map[string]string)
	for id, dep := range r.deployments {
		if r.byAddress[dep.ChainID] == nil {
			r.byAddress[dep.ChainID] = make(map[string]string)
		}
		r.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
	}
}

// GetDeployment retrieves a deployment by ID
func (r *FileRepository) GetDeployment(ctx context.Context, id string) (*domain.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dep, exists := r.deployments[id]
	if !exists {
		return nil, domain.ErrNotFound
	}

	clone := *dep
	return &clone, nil
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (r *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byAddress[chainID][strings.ToLower(address)]
	if !exists {
		return nil, domain.ErrNotFound
	}

	clone := *r.deployments[id]
	return &clone, nil
}

// ListDeployments retrieves deployments matching the filter
func (r *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Deployment, 0, len(r.deployments))
	for _, dep := range r.deployments {
		if filter.Network != "" && dep.Network != filter.Network {
			continue
		}
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			continue
		}
		if filter.ContractName != "" && dep.ContractName != filter.ContractName {
			continue
		}
		clone := *dep
		result = append(result, &clone)
	}

	return result, nil
}

// SaveDeployment saves a deployment, replacing a previous one with the same ID
func (r *FileRepository) SaveDeployment(ctx context.Context, deployment *domain.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *deployment
	if prev, exists := r.deployments[stored.ID]; exists && stored.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}

	prev, existed := r.deployments[stored.ID]
	r.deployments[stored.ID] = &stored
	if err := r.save(); err != nil {
		// keep memory in line with what is on disk
		if existed {
			r.deployments[stored.ID] = prev
		} else {
			delete(r.deployments, stored.ID)
		}
		return fmt.Errorf("failed to save registry: %w", err)
	}

	r.rebuildLookups()
	return nil
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
