package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// ShowDeploymentParams contains parameters for showing a deployment.
// Ref is a deployment ID, an address or a contract name; empty asks the user.
type ShowDeploymentParams struct {
	Ref string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	config   *config.RuntimeConfig
	repo     DeploymentRepository
	selector DeploymentSelector
	sink     ProgressSink
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, selector DeploymentSelector, sink ProgressSink) *ShowDeployment {
	return &ShowDeployment{
		config:   cfg,
		repo:     repo,
		selector: selector,
		sink:     sink,
	}
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*domain.Deployment, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: "Loading deployment details",
		Spinner: true,
	})

	ref := strings.TrimSpace(params.Ref)

	var (
		deployment *domain.Deployment
		err        error
	)
	switch {
	case strings.Count(ref, "/") == 2:
		deployment, err = uc.repo.GetDeployment(ctx, ref)
	case common.IsHexAddress(ref):
		deployment, err = uc.byAddress(ctx, ref)
	default:
		deployment, err = uc.byContract(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Message: "Deployment loaded",
	})

	return deployment, nil
}

func (uc *ShowDeployment) byAddress(ctx context.Context, address string) (*domain.Deployment, error) {
	deployments, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{Network: uc.config.NetworkName})
	if err != nil {
		return nil, err
	}

	chains := lo.Uniq(lo.Map(deployments, func(d *domain.Deployment, _ int) uint64 { return d.ChainID }))
	for _, chainID := range chains {
		dep, err := uc.repo.GetDeploymentByAddress(ctx, chainID, address)
		if err == nil {
			return dep, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no deployment at %s on network %s", domain.ErrNotFound, address, uc.config.NetworkName)
}

func (uc *ShowDeployment) byContract(ctx context.Context, contract string) (*domain.Deployment, error) {
	deployments, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{
		Network:      uc.config.NetworkName,
		ContractName: contract,
	})
	if err != nil {
		return nil, err
	}
	sortDeployments(deployments)

	switch {
	case len(deployments) == 1:
		return deployments[0], nil
	case len(deployments) == 0 && contract != "":
		return nil, fmt.Errorf("%w: %s has no deployment on network %s", domain.ErrNotFound, contract, uc.config.NetworkName)
	case len(deployments) == 0:
		return nil, fmt.Errorf("%w: no deployments on network %s", domain.ErrNotFound, uc.config.NetworkName)
	}

	if uc.config.NonInteractive {
		ids := lo.Map(deployments, func(d *domain.Deployment, _ int) string { return d.ID })
		return nil, fmt.Errorf("multiple deployments match, specify one of: %s", strings.Join(ids, ", "))
	}
	return uc.selector.SelectDeployment(ctx, deployments, "Select a deployment")
}
