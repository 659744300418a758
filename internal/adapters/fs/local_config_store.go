package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// LocalConfigFile is the name of the local config inside the data dir
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter keeps `sling config set` values in .sling/config.local.json.
// The same file is read by viper as the lowest-precedence config source.
type LocalConfigStoreAdapter struct {
	path string
}

// NewLocalConfigStoreAdapter creates a store under cfg.DataDir
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, LocalConfigFile)}
}

// Path returns the path to the config file
func (s *LocalConfigStoreAdapter) Path() string {
	return s.path
}

// Exists reports whether the config file has been written
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored config; missing files and missing keys fall back to defaults
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	cfg := config.DefaultLocalConfig()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var stored config.LocalConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}
	if stored.Network != "" {
		cfg.Network = stored.Network
	}

	return cfg, nil
}

// Save replaces the config file atomically
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	return nil
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
