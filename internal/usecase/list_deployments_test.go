package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

func sampleDeployments() []*domain.Deployment {
	return []*domain.Deployment{
		{
			ID:           "development/1337/WarehouseInventoryManagement",
			Network:      "development",
			ChainID:      1337,
			ContractName: "WarehouseInventoryManagement",
			Address:      warehouseAddress,
			Migration:    5,
			CreatedAt:    time.Now(),
		},
		{
			ID:           "staging/11155111/RoleManagement",
			Network:      "staging",
			ChainID:      11155111,
			ContractName: "RoleManagement",
			Address:      "0x3333333333333333333333333333333333333333",
			Migration:    2,
			CreatedAt:    time.Now(),
		},
		{
			ID:           "development/1337/RoleManagement",
			Network:      "development",
			ChainID:      1337,
			ContractName: "RoleManagement",
			Address:      roleAddress,
			Migration:    2,
			CreatedAt:    time.Now(),
		},
	}
}

func TestListDeployments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the active network", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		deployments := sampleDeployments()
		repo.On("ListDeployments", ctx, domain.DeploymentFilter{Network: "development"}).
			Return([]*domain.Deployment{deployments[0], deployments[2]}, nil)
		progress := &MockProgressSink{}

		uc := usecase.NewListDeployments(runtimeConfig(developmentNetwork()), repo, progress)
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})

		require.NoError(t, err)
		require.Len(t, result.Deployments, 2)
		// sorted by migration number
		assert.Equal(t, "RoleManagement", result.Deployments[0].ContractName)
		assert.Equal(t, "WarehouseInventoryManagement", result.Deployments[1].ContractName)
		assert.Equal(t, 2, result.Summary.ByNetwork["development"])
		assert.Equal(t, []string{"loading", "complete"}, progress.stages())
		repo.AssertExpectations(t)
	})

	t.Run("all networks with contract filter", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		deployments := sampleDeployments()
		repo.On("ListDeployments", ctx, domain.DeploymentFilter{ContractName: "RoleManagement"}).
			Return([]*domain.Deployment{deployments[1], deployments[2]}, nil)

		uc := usecase.NewListDeployments(runtimeConfig(developmentNetwork()), repo, usecase.NopProgress{})
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{ContractName: "RoleManagement", AllNetworks: true})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Summary.Total)
		assert.Equal(t, "development", result.Deployments[0].Network)
		assert.Equal(t, 1, result.Summary.ByChain[11155111])
	})

	t.Run("registry error", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("ListDeployments", ctx, mock.Anything).Return(nil, errors.New("permission denied"))

		uc := usecase.NewListDeployments(runtimeConfig(developmentNetwork()), repo, usecase.NopProgress{})
		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{})

		assert.EqualError(t, err, "permission denied")
	})
}

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()
	deployments := sampleDeployments()

	t.Run("by id", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("GetDeployment", ctx, "development/1337/RoleManagement").Return(deployments[2], nil)

		uc := usecase.NewShowDeployment(runtimeConfig(developmentNetwork()), repo, new(MockSelector), usecase.NopProgress{})
		dep, err := uc.Run(ctx, usecase.ShowDeploymentParams{Ref: "development/1337/RoleManagement"})

		require.NoError(t, err)
		assert.Equal(t, roleAddress, dep.Address)
	})

	t.Run("by contract name", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("ListDeployments", ctx, domain.DeploymentFilter{Network: "development", ContractName: "RoleManagement"}).
			Return([]*domain.Deployment{deployments[2]}, nil)

		uc := usecase.NewShowDeployment(runtimeConfig(developmentNetwork()), repo, new(MockSelector), usecase.NopProgress{})
		dep, err := uc.Run(ctx, usecase.ShowDeploymentParams{Ref: "RoleManagement"})

		require.NoError(t, err)
		assert.Equal(t, "development/1337/RoleManagement", dep.ID)
	})

	t.Run("by address", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("ListDeployments", ctx, domain.DeploymentFilter{Network: "development"}).
			Return([]*domain.Deployment{deployments[0], deployments[2]}, nil)
		repo.On("GetDeploymentByAddress", ctx, uint64(1337), warehouseAddress).Return(deployments[0], nil)

		uc := usecase.NewShowDeployment(runtimeConfig(developmentNetwork()), repo, new(MockSelector), usecase.NopProgress{})
		dep, err := uc.Run(ctx, usecase.ShowDeploymentParams{Ref: warehouseAddress})

		require.NoError(t, err)
		assert.Equal(t, "WarehouseInventoryManagement", dep.ContractName)
	})

	t.Run("unknown contract", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		repo.On("ListDeployments", ctx, mock.Anything).Return([]*domain.Deployment{}, nil)

		uc := usecase.NewShowDeployment(runtimeConfig(developmentNetwork()), repo, new(MockSelector), usecase.NopProgress{})
		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{Ref: "Missing"})

		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("no argument asks the user", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		selector := new(MockSelector)
		listed := []*domain.Deployment{deployments[0], deployments[2]}
		repo.On("ListDeployments", ctx, domain.DeploymentFilter{Network: "development"}).Return(listed, nil)
		selector.On("SelectDeployment", ctx, mock.Anything, "Select a deployment").Return(deployments[0], nil)

		uc := usecase.NewShowDeployment(runtimeConfig(developmentNetwork()), repo, selector, usecase.NopProgress{})
		dep, err := uc.Run(ctx, usecase.ShowDeploymentParams{})

		require.NoError(t, err)
		assert.Equal(t, "WarehouseInventoryManagement", dep.ContractName)
		selector.AssertExpectations(t)
	})

	t.Run("non-interactive refuses to guess", func(t *testing.T) {
		repo := new(MockDeploymentRepository)
		selector := new(MockSelector)
		repo.On("ListDeployments", ctx, mock.Anything).Return([]*domain.Deployment{deployments[0], deployments[2]}, nil)

		cfg := runtimeConfig(developmentNetwork())
		cfg.NonInteractive = true
		uc := usecase.NewShowDeployment(cfg, repo, selector, usecase.NopProgress{})
		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple deployments match")
		selector.AssertNotCalled(t, "SelectDeployment", mock.Anything, mock.Anything, mock.Anything)
	})
}
