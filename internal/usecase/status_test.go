package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

func TestMigrationStatus(t *testing.T) {
	ctx := context.Background()
	network := developmentNetwork()

	t.Run("completed and pending", func(t *testing.T) {
		plans := new(MockPlanLoader)
		chain := new(MockChainClient)
		states := new(MockStateStore)

		plans.On("Load", ctx).Return(&domain.MigrationPlan{
			Path:       "migrations.yaml",
			Migrations: []*domain.Migration{warehouseMigration(), roleMigration()},
		}, nil)
		chain.On("Connect", ctx, network).Return(devChain, nil)
		state := domain.NewMigrationState("development", 1337)
		state.Completed[2] = &domain.MigrationRecord{Number: 2, Contract: "RoleManagement", CompletedAt: time.Now()}
		states.On("Load", ctx, "development", uint64(1337)).Return(state, nil)

		uc := usecase.NewMigrationStatus(runtimeConfig(network), plans, chain, states, usecase.NopProgress{})
		result, err := uc.Run(ctx)

		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, domain.MigrationCompleted, result.Entries[0].Status)
		assert.NotNil(t, result.Entries[0].Record)
		assert.Equal(t, domain.MigrationPending, result.Entries[1].Status)
		assert.Equal(t, []string{"RoleManagement"}, result.Entries[1].Requires)
		assert.Equal(t, 1, result.Completed)
		assert.Equal(t, 1, result.Pending)
		assert.Equal(t, uint64(1337), result.Chain.ChainID)
	})

	t.Run("unreachable node", func(t *testing.T) {
		plans := new(MockPlanLoader)
		chain := new(MockChainClient)
		plans.On("Load", ctx).Return(&domain.MigrationPlan{Migrations: []*domain.Migration{roleMigration()}}, nil)
		chain.On("Connect", ctx, network).Return(nil, errors.New("dial tcp 127.0.0.1:7545: connection refused"))

		uc := usecase.NewMigrationStatus(runtimeConfig(network), plans, chain, new(MockStateStore), usecase.NopProgress{})
		_, err := uc.Run(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to network development")
	})
}
