package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NodeRenderer renders local node operation results
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// Render renders the node operation result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	switch result.Operation {
	case "start", "restart":
		return r.renderStart(result)
	case "stop":
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		return nil
	case "status":
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *NodeRenderer) renderStart(result *usecase.ManageNodeResult) error {
	fmt.Fprintln(r.out, FormatSuccess(result.Message))
	if result.Status != nil {
		color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
		color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
		if result.Status.NetworkID != "" {
			fmt.Fprintf(r.out, "🔗 Network ID: %s\n", result.Status.NetworkID)
		}
	}
	return nil
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	headerStyle.Fprintf(r.out, "📊 Node Status ('%s'):\n", result.Instance.Name)

	status := result.Status
	if !status.Running {
		errorStyle.Fprintln(r.out, "Status: 🔴 Not running")
		if status.Error != "" {
			faintStyle.Fprintf(r.out, "%s\n", status.Error)
		}
		faintStyle.Fprintf(r.out, "PID file: %s\n", result.Instance.PidFile)
		faintStyle.Fprintf(r.out, "Log file: %s\n", status.LogFile)
		return nil
	}

	okStyle.Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	color.New(color.FgBlue).Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	color.New(color.FgYellow).Fprintf(r.out, "Log file: %s\n", status.LogFile)
	if status.RPCHealthy {
		okStyle.Fprintf(r.out, "RPC Health: ✅ Responding (network id %s)\n", status.NetworkID)
	} else {
		errorStyle.Fprintf(r.out, "RPC Health: ❌ Not responding (%s)\n", status.Error)
	}
	return nil
}
