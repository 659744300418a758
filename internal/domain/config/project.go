package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ProjectConfig represents the full sling.toml configuration
type ProjectConfig struct {
	Networks   map[string]NetworkConfig `toml:"networks"`
	Compilers  CompilersConfig          `toml:"compilers"`
	Contracts  ContractsConfig          `toml:"contracts"`
	Senders    map[string]SenderConfig  `toml:"senders"`
	Migrations MigrationsConfig         `toml:"migrations"`
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	Host          string    `toml:"host,omitempty"`
	Port          int       `toml:"port,omitempty"`
	NetworkID     NetworkID `toml:"network_id,omitempty"`
	URL           string    `toml:"url,omitempty"` // overrides host and port
	From          string    `toml:"from,omitempty"`
	Gas           uint64    `toml:"gas,omitempty"`
	GasPrice      string    `toml:"gas_price,omitempty"` // wei, decimal
	Confirmations uint64    `toml:"confirmations,omitempty"`
}

// DefaultHost is used when a network declares a port but no host
const DefaultHost = "127.0.0.1"

// RPCURL returns the JSON-RPC endpoint of the network
func (n NetworkConfig) RPCURL() (string, error) {
	if n.URL != "" {
		return n.URL, nil
	}
	if n.Port == 0 {
		return "", fmt.Errorf("network must declare either url or port")
	}
	host := n.Host
	if host == "" {
		host = DefaultHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(n.Port)), nil
}

// NetworkID accepts both `network_id = 5777` and `network_id = "5777"`
type NetworkID string

// UnmarshalTOML implements toml.Unmarshaler
func (id *NetworkID) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*id = NetworkID(strings.TrimSpace(val))
	case int64:
		*id = NetworkID(strconv.FormatInt(val, 10))
	default:
		return fmt.Errorf("network_id must be a string or integer, got %T", v)
	}
	return nil
}

// CompilersConfig represents the [compilers] section
type CompilersConfig struct {
	Solc CompilerConfig `toml:"solc"`
}

// CompilerConfig pins the compiler the artifacts must come from
type CompilerConfig struct {
	Version string `toml:"version,omitempty"`
}

// Matches reports whether an artifact compiler version satisfies the pin.
// "0.8.0+commit.c7dfd78e.Emscripten.clang" matches pin "0.8.0".
func (c CompilerConfig) Matches(artifactVersion string) bool {
	pin := strings.TrimPrefix(strings.TrimSpace(c.Version), "v")
	if pin == "" || artifactVersion == "" {
		return true
	}
	v := strings.TrimPrefix(strings.TrimSpace(artifactVersion), "v")
	return v == pin || strings.HasPrefix(v, pin+"+")
}

// ContractsConfig represents the [contracts] section
type ContractsConfig struct {
	Artifacts string `toml:"artifacts,omitempty"`
}

// MigrationsConfig represents the [migrations] section
type MigrationsConfig struct {
	File string `toml:"file,omitempty"`
}

// SenderConfig represents a [senders.<name>] section
type SenderConfig struct {
	Type         string `toml:"type"`
	PrivateKey   string `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Address      string `toml:"address,omitempty"`
	AccountIndex *int   `toml:"account_index,omitempty"`
}

const (
	DefaultArtifactsDir   = "build/contracts"
	DefaultMigrationsFile = "migrations.yaml"
	DefaultNetwork        = "development"
)

// ApplyDefaults fills in paths that were left out
func (c *ProjectConfig) ApplyDefaults() {
	if c.Networks == nil {
		c.Networks = make(map[string]NetworkConfig)
	}
	if c.Senders == nil {
		c.Senders = make(map[string]SenderConfig)
	}
	if c.Contracts.Artifacts == "" {
		c.Contracts.Artifacts = DefaultArtifactsDir
	}
	if c.Migrations.File == "" {
		c.Migrations.File = DefaultMigrationsFile
	}
}
