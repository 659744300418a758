package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// StateFile is the migration state file inside the data dir
const StateFile = "migrations.json"

// FileStateStore keeps per-network migration state in a json file.
// The file is re-read on every call so concurrent runs on different
// networks see each other's writes.
type FileStateStore struct {
	dataDir string
	mu      sync.Mutex
	now     func() time.Time
}

// NewFileStateStore creates a state store in dataDir
func NewFileStateStore(dataDir string) *FileStateStore {
	return &FileStateStore{dataDir: dataDir, now: time.Now}
}

// NewFileStateStoreFromConfig creates a state store for the project's data dir
func NewFileStateStoreFromConfig(cfg *config.RuntimeConfig) *FileStateStore {
	return NewFileStateStore(cfg.DataDir)
}

func (s *FileStateStore) path() string {
	return filepath.Join(s.dataDir, StateFile)
}

func (s *FileStateStore) read() (map[string]*domain.MigrationState, error) {
	states := make(map[string]*domain.MigrationState)

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return states, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migration state: %w", err)
	}
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path(), err)
	}
	return states, nil
}

func (s *FileStateStore) write(states map[string]*domain.MigrationState) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path())
}

// update applies fn to the state of one network and writes the result
func (s *FileStateStore) update(network string, chainID uint64, fn func(*domain.MigrationState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.read()
	if err != nil {
		return err
	}

	key := domain.MigrationStateKey(network, chainID)
	state, ok := states[key]
	if !ok || state == nil {
		state = domain.NewMigrationState(network, chainID)
		states[key] = state
	}
	if state.Completed == nil {
		state.Completed = make(map[int]*domain.MigrationRecord)
	}

	fn(state)
	state.UpdatedAt = s.now()

	return s.write(states)
}

// Load returns the state of a network, empty when nothing ran yet
func (s *FileStateStore) Load(ctx context.Context, network string, chainID uint64) (*domain.MigrationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.read()
	if err != nil {
		return nil, err
	}

	state, ok := states[domain.MigrationStateKey(network, chainID)]
	if !ok || state == nil {
		return domain.NewMigrationState(network, chainID), nil
	}
	if state.Completed == nil {
		state.Completed = make(map[int]*domain.MigrationRecord)
	}
	return state, nil
}

// MarkCompleted records a completed migration
func (s *FileStateStore) MarkCompleted(ctx context.Context, network string, chainID uint64, record *domain.MigrationRecord) error {
	return s.update(network, chainID, func(state *domain.MigrationState) {
		state.Completed[record.Number] = record
	})
}

// Unmark forgets a completed migration
func (s *FileStateStore) Unmark(ctx context.Context, network string, chainID uint64, number int) error {
	return s.update(network, chainID, func(state *domain.MigrationState) {
		delete(state.Completed, number)
	})
}

// Reset forgets all migrations of a network
func (s *FileStateStore) Reset(ctx context.Context, network string, chainID uint64) error {
	return s.update(network, chainID, func(state *domain.MigrationState) {
		state.Completed = make(map[int]*domain.MigrationRecord)
	})
}

var _ usecase.MigrationStateStore = (*FileStateStore)(nil)
