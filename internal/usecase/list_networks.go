package usecase

import (
	"context"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	Refresh bool // ignore cached chain ids
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	Network *domain.Network
	Chain   *domain.ChainInfo
	Matches bool // node network id satisfies the configured one
	Error   error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.Names()

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{Name: name}

		network, err := uc.resolver.Resolve(name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.Network = network

		if params.Refresh {
			uc.resolver.Forget(network.RPCURL)
		}
		chain, err := uc.resolver.Detect(ctx, network)
		if err != nil {
			status.Error = err
		} else {
			status.Chain = chain
			status.Matches = network.MatchesNetworkID(chain.NetworkID)
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.config.NetworkName,
	}, nil
}
