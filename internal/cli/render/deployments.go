package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

var (
	networkHeader     = color.New(color.BgYellow, color.FgBlack)
	networkHeaderBold = color.New(color.BgYellow, color.FgBlack, color.Bold)
)

// DeploymentsRenderer renders deployment lists grouped by network and chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

type groupKey struct {
	network string
	chainID uint64
}

// Render prints one table per network and chain
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(d *domain.Deployment) groupKey {
		return groupKey{network: d.Network, chainID: d.ChainID}
	})
	keys := lo.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].network != keys[j].network {
			return keys[i].network < keys[j].network
		}
		return keys[i].chainID < keys[j].chainID
	})

	for i, key := range keys {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, networkHeader.Sprintf(" ⛓ %-10s", "network:")+networkHeaderBold.Sprintf("%-20s", fmt.Sprintf(" %s (%d)", key.network, key.chainID)))

		t := newTable()
		t.AppendHeader(table.Row{"#", "CONTRACT", "ADDRESS", "BLOCK", "DEPLOYED AT"})
		for _, dep := range groups[key] {
			t.AppendRow(table.Row{
				dep.Migration,
				nameStyle.Sprint(dep.ContractName),
				addressStyle.Sprint(dep.Address),
				dep.BlockNumber,
				faintStyle.Sprint(dep.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total deployments: %d\n", result.Summary.Total)
	return nil
}
