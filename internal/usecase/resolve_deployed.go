package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/sling/internal/domain"
)

// ResolveDeployed finds the live instance of a named contract on the connected network
type ResolveDeployed struct {
	repo      DeploymentRepository
	artifacts ArtifactRepository
	chain     ChainClient
	log       *slog.Logger
}

// NewResolveDeployed creates a new ResolveDeployed use case
func NewResolveDeployed(
	repo DeploymentRepository,
	artifacts ArtifactRepository,
	chain ChainClient,
	log *slog.Logger,
) *ResolveDeployed {
	return &ResolveDeployed{
		repo:      repo,
		artifacts: artifacts,
		chain:     chain,
		log:       log.With("component", "ResolveDeployed"),
	}
}

// Resolve returns the deployed address of contract. A contract without a
// record, or whose recorded address has no code, yields a *domain.NotDeployedErr.
// The chain client must already be connected.
func (uc *ResolveDeployed) Resolve(ctx context.Context, network *domain.Network, chain *domain.ChainInfo, contract string) (*domain.ResolvedContract, error) {
	candidate, err := uc.candidate(ctx, network, chain, contract)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, &domain.NotDeployedErr{
			Contract: contract,
			Network:  network.Name,
			Reason:   "no deployment recorded",
		}
	}

	if !common.IsHexAddress(candidate.Address) {
		return nil, fmt.Errorf("%w: %s recorded at %q", domain.ErrInvalidAddress, contract, candidate.Address)
	}

	code, err := uc.chain.CodeAt(ctx, common.HexToAddress(candidate.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to check code of %s at %s: %w", contract, candidate.Address, err)
	}
	if len(code) == 0 {
		uc.log.Debug("recorded address has no code", "contract", contract, "address", candidate.Address, "source", candidate.Source)
		return nil, &domain.NotDeployedErr{
			Contract: contract,
			Network:  network.Name,
			Reason:   fmt.Sprintf("no code at %s", candidate.Address),
		}
	}

	return candidate, nil
}

// candidate looks in the registry first and then in the artifact's networks section
func (uc *ResolveDeployed) candidate(ctx context.Context, network *domain.Network, chain *domain.ChainInfo, contract string) (*domain.ResolvedContract, error) {
	dep, err := uc.repo.GetDeployment(ctx, domain.DeploymentID(network.Name, chain.ChainID, contract))
	switch {
	case err == nil:
		return &domain.ResolvedContract{Name: contract, Address: dep.Address, Source: "registry"}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to read registry for %s: %w", contract, err)
	}

	artifact, err := uc.artifacts.Get(ctx, contract)
	switch {
	case errors.Is(err, domain.ErrContractNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	entry, ok := artifact.Networks[chain.NetworkID]
	if !ok || entry.Address == "" {
		return nil, nil
	}
	return &domain.ResolvedContract{Name: contract, Address: entry.Address, Source: "artifact"}, nil
}
