package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	AllNetworks  bool
}

// DeploymentSummary counts deployments
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
	ByChain   map[uint64]int
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.Deployment
	Summary     DeploymentSummary
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		ContractName: params.ContractName,
	}
	if !params.AllNetworks {
		filter.Network = uc.config.NetworkName
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts by network, chain, migration number and contract name
func sortDeployments(deployments []*domain.Deployment) {
	sort.Slice(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.Network != b.Network {
			return a.Network < b.Network
		}
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Migration != b.Migration {
			return a.Migration < b.Migration
		}
		return a.ContractName < b.ContractName
	})
}

func calculateSummary(deployments []*domain.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
		ByChain:   make(map[uint64]int),
	}
	for _, dep := range deployments {
		summary.ByNetwork[dep.Network]++
		summary.ByChain[dep.ChainID]++
	}
	return summary
}
