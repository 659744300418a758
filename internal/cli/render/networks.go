package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render prints configured networks with what their endpoints report
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintf(r.out, "No networks configured in %s [networks]\n", config.ProjectFile)
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"", "NETWORK", "RPC URL", "NETWORK ID", "CHAIN ID", "STATUS"})
	for _, n := range result.Networks {
		marker := " "
		if n.Name == result.Current {
			marker = "*"
		}

		rpcURL, expected := "", ""
		if n.Network != nil {
			rpcURL = n.Network.RPCURL
			expected = n.Network.NetworkID
		}
		if expected == "" {
			expected = "*"
		}

		switch {
		case n.Error != nil:
			t.AppendRow(table.Row{marker, n.Name, rpcURL, expected, "-", errorStyle.Sprintf("❌ %v", n.Error)})
		case !n.Matches:
			t.AppendRow(table.Row{marker, n.Name, rpcURL, expected, n.Chain.ChainID,
				warnStyle.Sprintf("⚠️  node reports network id %s", n.Chain.NetworkID)})
		default:
			t.AppendRow(table.Row{marker, n.Name, rpcURL, expected, n.Chain.ChainID, okStyle.Sprint("✅ reachable")})
		}
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
