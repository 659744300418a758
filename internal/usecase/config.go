package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config       *config.LocalConfig
	ConfigPath   string
	Exists       bool
	ProjectFile  string
	NetworkKnown bool
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	_, known := uc.config.Project.Networks[local.Network]

	return &ShowConfigResult{
		Config:       local,
		ConfigPath:   uc.store.Path(),
		Exists:       uc.store.Exists(),
		ProjectFile:  uc.config.ConfigSource,
		NetworkKnown: known,
	}, nil
}

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *SetConfig {
	return &SetConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key := strings.ToLower(params.Key)

	if !config.IsValidConfigKey(key) {
		validKeys := []string{}
		for _, k := range config.ValidConfigKeys() {
			if k == config.ConfigKeyNetwork {
				validKeys = append(validKeys, string(k)+" (net)")
			} else {
				validKeys = append(validKeys, string(k))
			}
		}
		return nil, fmt.Errorf("unknown config key: %s\nAvailable keys: %s", params.Key, strings.Join(validKeys, ", "))
	}

	normalizedKey := config.NormalizeConfigKey(key)

	switch normalizedKey {
	case config.ConfigKeyNetwork:
		if _, ok := uc.config.Project.Networks[params.Value]; !ok {
			return nil, fmt.Errorf("%w: '%s' is not declared in sling.toml", domain.ErrNetworkNotConfigured, params.Value)
		}
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch normalizedKey {
	case config.ConfigKeyNetwork:
		local.Network = params.Value
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: local,
		ConfigPath:    uc.store.Path(),
		Key:           normalizedKey,
		Value:         params.Value,
	}, nil
}
