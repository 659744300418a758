package config

import (
	"time"

	"github.com/trebuchet-org/sling/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	NetworkName string
	Network     *domain.Network // nil if the selected network is not configured

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Resolved configurations
	Project      *ProjectConfig
	ConfigSource string // path of sling.toml, empty when missing
}
