package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

const (
	// ProjectFile marks the project root
	ProjectFile = "sling.toml"
	// DataDirName holds the registry, migration state and local config
	DataDirName = ".sling"
)

// LoadProjectConfig loads .env files and parses sling.toml in projectRoot.
// A missing sling.toml yields an empty config and an empty source path.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, string, error) {
	loadEnvFiles(projectRoot)

	path := filepath.Join(projectRoot, ProjectFile)
	cfg := &config.ProjectConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.ApplyDefaults()
		return cfg, "", nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	expandProjectEnv(cfg)
	cfg.ApplyDefaults()

	return cfg, path, nil
}

// loadEnvFiles loads .env and .env.local; existing process variables win
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// expandProjectEnv expands ${VAR} references in string values
func expandProjectEnv(cfg *config.ProjectConfig) {
	for name, network := range cfg.Networks {
		network.Host = os.ExpandEnv(network.Host)
		network.URL = os.ExpandEnv(network.URL)
		network.From = os.ExpandEnv(network.From)
		network.GasPrice = os.ExpandEnv(network.GasPrice)
		cfg.Networks[name] = network
	}

	for name, sender := range cfg.Senders {
		sender.PrivateKey = os.ExpandEnv(sender.PrivateKey)
		sender.Address = os.ExpandEnv(sender.Address)
		cfg.Senders[name] = sender
	}

	cfg.Contracts.Artifacts = os.ExpandEnv(cfg.Contracts.Artifacts)
	cfg.Migrations.File = os.ExpandEnv(cfg.Migrations.File)
}

// FindProjectRoot walks up from current directory to find sling.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a sling project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}
