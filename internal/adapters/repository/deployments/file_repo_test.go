package deployments_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/sling/internal/domain"
)

func roleDeployment() *domain.Deployment {
	return &domain.Deployment{
		ID:              "development/1337/RoleManagement",
		Network:         "development",
		ChainID:         1337,
		ContractName:    "RoleManagement",
		Address:         "0xAbCdEf0123456789012345678901234567890123",
		TransactionHash: "0x01",
		Migration:       2,
		Artifact: domain.Artifact{
			Name:            "RoleManagement",
			Path:            "build/contracts/RoleManagement.json",
			CompilerVersion: "0.8.0+commit.c7dfd78e",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and retrieve deployment", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := deployments.NewFileRepository(dir)
		require.NoError(t, err)

		dep := roleDeployment()
		require.NoError(t, repo.SaveDeployment(ctx, dep))

		retrieved, err := repo.GetDeployment(ctx, dep.ID)
		require.NoError(t, err)
		assert.Equal(t, dep.Address, retrieved.Address)
		assert.Equal(t, "0.8.0+commit.c7dfd78e", retrieved.Artifact.CompilerVersion)

		// returned values are copies
		retrieved.Address = "0x0"
		again, err := repo.GetDeployment(ctx, dep.ID)
		require.NoError(t, err)
		assert.Equal(t, dep.Address, again.Address)
	})

	t.Run("persists across instances", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := deployments.NewFileRepository(dir)
		require.NoError(t, err)
		require.NoError(t, repo.SaveDeployment(ctx, roleDeployment()))

		_, err = os.Stat(filepath.Join(dir, deployments.DeploymentsFile))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, deployments.DeploymentsFile+".tmp"))
		assert.True(t, os.IsNotExist(err))

		reopened, err := deployments.NewFileRepository(dir)
		require.NoError(t, err)
		dep, err := reopened.GetDeployment(ctx, "development/1337/RoleManagement")
		require.NoError(t, err)
		assert.Equal(t, 2, dep.Migration)
	})

	t.Run("get deployment by address is case insensitive", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, repo.SaveDeployment(ctx, roleDeployment()))

		dep, err := repo.GetDeploymentByAddress(ctx, 1337, "0xabcdef0123456789012345678901234567890123")
		require.NoError(t, err)
		assert.Equal(t, "RoleManagement", dep.ContractName)

		_, err = repo.GetDeploymentByAddress(ctx, 1, "0xabcdef0123456789012345678901234567890123")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("redeploy replaces the record and keeps creation time", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, err)
		first := roleDeployment()
		require.NoError(t, repo.SaveDeployment(ctx, first))

		second := roleDeployment()
		second.Address = "0x1111111111111111111111111111111111111111"
		second.CreatedAt = time.Time{}
		require.NoError(t, repo.SaveDeployment(ctx, second))

		dep, err := repo.GetDeployment(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, second.Address, dep.Address)
		assert.True(t, first.CreatedAt.Equal(dep.CreatedAt))

		_, err = repo.GetDeploymentByAddress(ctx, 1337, first.Address)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("list with filters", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, err)

		role := roleDeployment()
		warehouse := roleDeployment()
		warehouse.ID = "development/1337/WarehouseInventoryManagement"
		warehouse.ContractName = "WarehouseInventoryManagement"
		warehouse.Address = "0x2222222222222222222222222222222222222222"
		staging := roleDeployment()
		staging.ID = "staging/11155111/RoleManagement"
		staging.Network = "staging"
		staging.ChainID = 11155111

		for _, d := range []*domain.Deployment{role, warehouse, staging} {
			require.NoError(t, repo.SaveDeployment(ctx, d))
		}

		all, err := repo.ListDeployments(ctx, domain.DeploymentFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		dev, err := repo.ListDeployments(ctx, domain.DeploymentFilter{Network: "development"})
		require.NoError(t, err)
		assert.Len(t, dev, 2)

		roles, err := repo.ListDeployments(ctx, domain.DeploymentFilter{ContractName: "RoleManagement", ChainID: 11155111})
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "staging", roles[0].Network)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		repo, err := deployments.NewFileRepository(t.TempDir())
		require.NoError(t, err)
		assert.Error(t, repo.SaveDeployment(ctx, &domain.Deployment{}))
	})

	t.Run("corrupt registry", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, deployments.DeploymentsFile), []byte("{not json"), 0644))

		_, err := deployments.NewFileRepository(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load registry")
	})
}

func TestSaveDeploymentWriteFailure(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*deployments.FileRepository, string) {
		t.Helper()
		dir := t.TempDir()
		repo, err := deployments.NewFileRepository(dir)
		require.NoError(t, err)
		return repo, dir
	}
	// a non-empty directory at the registry path makes the rename fail
	blockRegistry := func(t *testing.T, dir string) {
		t.Helper()
		path := filepath.Join(dir, deployments.DeploymentsFile)
		require.NoError(t, os.RemoveAll(path))
		require.NoError(t, os.MkdirAll(filepath.Join(path, "blocked"), 0755))
	}

	t.Run("new deployment is not kept in memory", func(t *testing.T) {
		repo, dir := setup(t)
		blockRegistry(t, dir)

		dep := roleDeployment()
		require.Error(t, repo.SaveDeployment(ctx, dep))

		_, err := repo.GetDeployment(ctx, dep.ID)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		_, err = repo.GetDeploymentByAddress(ctx, dep.ChainID, dep.Address)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("previous deployment is restored", func(t *testing.T) {
		repo, dir := setup(t)
		original := roleDeployment()
		require.NoError(t, repo.SaveDeployment(ctx, original))
		blockRegistry(t, dir)

		replacement := roleDeployment()
		replacement.Address = "0x9999999999999999999999999999999999999999"
		require.Error(t, repo.SaveDeployment(ctx, replacement))

		got, err := repo.GetDeployment(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, original.Address, got.Address)
		_, err = repo.GetDeploymentByAddress(ctx, replacement.ChainID, replacement.Address)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
