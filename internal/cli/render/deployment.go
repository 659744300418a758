package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/sling/internal/domain"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// Render renders detailed deployment information
func (r *DeploymentRenderer) Render(deployment *domain.Deployment) error {
	headerStyle.Fprintf(r.out, "Deployment: %s\n", deployment.ID)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", color.New(color.FgYellow).Sprint(deployment.ContractName))
	fmt.Fprintf(r.out, "  Address: %s\n", deployment.Address)
	fmt.Fprintf(r.out, "  Network: %s (chain %d)\n", deployment.Network, deployment.ChainID)
	fmt.Fprintf(r.out, "  Migration: %d\n", deployment.Migration)

	fmt.Fprintln(r.out, "\nTransaction:")
	fmt.Fprintf(r.out, "  Hash: %s\n", deployment.TransactionHash)
	fmt.Fprintf(r.out, "  Block: %d\n", deployment.BlockNumber)
	fmt.Fprintf(r.out, "  Deployer: %s\n", deployment.Deployer)
	if deployment.ConstructorArgs != "" && deployment.ConstructorArgs != "0x" {
		fmt.Fprintf(r.out, "  Constructor Args: %s\n", deployment.ConstructorArgs)
	}

	fmt.Fprintln(r.out, "\nArtifact:")
	fmt.Fprintf(r.out, "  Path: %s\n", getRelativePath(deployment.Artifact.Path))
	if deployment.Artifact.CompilerVersion != "" {
		fmt.Fprintf(r.out, "  Compiler: %s\n", deployment.Artifact.CompilerVersion)
	}

	fmt.Fprintln(r.out, "\nTimestamps:")
	fmt.Fprintf(r.out, "  Created: %s\n", deployment.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if !deployment.UpdatedAt.IsZero() && !deployment.UpdatedAt.Equal(deployment.CreatedAt) {
		fmt.Fprintf(r.out, "  Updated: %s\n", deployment.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}
