package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

func configWithNetworks(names ...string) *config.RuntimeConfig {
	cfg := runtimeConfig(developmentNetwork())
	for _, name := range names {
		cfg.Project.Networks[name] = config.NetworkConfig{Port: 7545}
	}
	return cfg
}

func TestShowConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when no local config", func(t *testing.T) {
		store := &MockLocalConfigStore{}
		cfg := configWithNetworks("development")
		cfg.ConfigSource = "/project/sling.toml"

		result, err := usecase.NewShowConfig(cfg, store).Run(ctx)

		require.NoError(t, err)
		assert.False(t, result.Exists)
		assert.Equal(t, "development", result.Config.Network)
		assert.True(t, result.NetworkKnown)
		assert.Equal(t, "/project/sling.toml", result.ProjectFile)
	})

	t.Run("selected network missing from project", func(t *testing.T) {
		store := &MockLocalConfigStore{cfg: &config.LocalConfig{Network: "staging"}}

		result, err := usecase.NewShowConfig(configWithNetworks("development"), store).Run(ctx)

		require.NoError(t, err)
		assert.True(t, result.Exists)
		assert.False(t, result.NetworkKnown)
	})
}

func TestSetConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("sets the network", func(t *testing.T) {
		store := &MockLocalConfigStore{}
		uc := usecase.NewSetConfig(configWithNetworks("development", "staging"), store)

		result, err := uc.Run(ctx, usecase.SetConfigParams{Key: "Network", Value: "staging"})

		require.NoError(t, err)
		assert.Equal(t, config.ConfigKeyNetwork, result.Key)
		assert.True(t, store.saved)
		assert.Equal(t, "staging", store.cfg.Network)
	})

	t.Run("net alias", func(t *testing.T) {
		store := &MockLocalConfigStore{}
		uc := usecase.NewSetConfig(configWithNetworks("staging"), store)

		_, err := uc.Run(ctx, usecase.SetConfigParams{Key: "net", Value: "staging"})

		require.NoError(t, err)
		assert.Equal(t, "staging", store.cfg.Network)
	})

	t.Run("unknown key", func(t *testing.T) {
		uc := usecase.NewSetConfig(configWithNetworks(), &MockLocalConfigStore{})

		_, err := uc.Run(ctx, usecase.SetConfigParams{Key: "namespace", Value: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown config key: namespace")
		assert.Contains(t, err.Error(), "network (net)")
	})

	t.Run("undeclared network", func(t *testing.T) {
		store := &MockLocalConfigStore{}
		uc := usecase.NewSetConfig(configWithNetworks("development"), store)

		_, err := uc.Run(ctx, usecase.SetConfigParams{Key: "network", Value: "mainnet"})

		assert.True(t, errors.Is(err, domain.ErrNetworkNotConfigured))
		assert.False(t, store.saved)
	})

	t.Run("save failure", func(t *testing.T) {
		store := &MockLocalConfigStore{saveErr: errors.New("read-only file system")}
		uc := usecase.NewSetConfig(configWithNetworks("development"), store)

		_, err := uc.Run(ctx, usecase.SetConfigParams{Key: "network", Value: "development"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save config")
	})
}
