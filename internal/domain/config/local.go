package config

// LocalConfig is the per-checkout state written by `sling config set`
type LocalConfig struct {
	Network string `json:"network"`
}

// ConfigKey names a settable local config value
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
)

// configKeyAliases maps accepted spellings to their key
var configKeyAliases = map[string]ConfigKey{
	"network": ConfigKeyNetwork,
	"net":     ConfigKeyNetwork,
	"n":       ConfigKeyNetwork,
}

// DefaultLocalConfig selects the development network
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{Network: DefaultNetwork}
}

// ValidConfigKeys lists the canonical keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{ConfigKeyNetwork}
}

// IsValidConfigKey reports whether key or one of its aliases is known
func IsValidConfigKey(key string) bool {
	_, ok := configKeyAliases[key]
	return ok
}

// NormalizeConfigKey resolves aliases such as "net" to their canonical key
func NormalizeConfigKey(key string) ConfigKey {
	if k, ok := configKeyAliases[key]; ok {
		return k
	}
	return ConfigKey(key)
}
