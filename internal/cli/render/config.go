package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/sling/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "No .sling/config.local.json file found, using defaults\n")
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
	}

	network := result.Config.Network
	if network == "" {
		network = "(not set)"
	}
	fmt.Fprintf(r.out, "Network: %s\n", network)
	if result.Config.Network != "" && !result.NetworkKnown {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("network '%s' is not declared in sling.toml", result.Config.Network)))
	}

	if result.ProjectFile != "" {
		fmt.Fprintf(r.out, "\n📦 Project file: %s\n", getRelativePath(result.ProjectFile))
	} else {
		fmt.Fprintf(r.out, "\n📦 Project file: (missing, run 'sling init')\n")
	}
	if result.Exists {
		fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	}

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
