package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

func newTestProgress() (*MigrationProgress, *bytes.Buffer) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	p := NewMigrationProgress()
	p.out = buf
	p.spinner.out = buf
	return p, buf
}

func TestMigrationProgress(t *testing.T) {
	ctx := context.Background()
	migration := &domain.Migration{Number: 5, Name: "warehouse_inventory", Contract: "WarehouseInventoryManagement"}

	t.Run("completed migration", func(t *testing.T) {
		p, buf := newTestProgress()

		p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageConnected, Metadata: &domain.ChainInfo{ChainID: 1337, NetworkID: "5777"}})
		p.OnProgress(ctx, usecase.ProgressEvent{
			Stage:    usecase.StageMigrationStarting,
			Current:  1,
			Total:    2,
			Metadata: &usecase.ExecutionStep{Migration: migration},
		})
		p.Info("Deploying WarehouseInventoryManagement with:")
		p.OnProgress(ctx, usecase.ProgressEvent{
			Stage: usecase.StageMigrationCompleted,
			Metadata: &usecase.MigrationStepResult{
				Status:     domain.MigrationCompleted,
				Deployment: &domain.Deployment{TransactionHash: "0xabc", BlockNumber: 7},
				GasUsed:    123456,
			},
		})

		out := buf.String()
		assert.Contains(t, out, "Connected to chain 1337 (network id 5777)")
		assert.Contains(t, out, "5_warehouse_inventory [1/2]\n=====================\n")
		assert.Contains(t, out, "Deploying WarehouseInventoryManagement with:")
		assert.Contains(t, out, "transaction hash: 0xabc")
		assert.Contains(t, out, "gas used:         123456")
		assert.Contains(t, out, "completed in")
	})

	t.Run("skipped migration", func(t *testing.T) {
		p, buf := newTestProgress()

		p.Error("ERROR: RoleManagement has not been deployed to network development. Cannot deploy WarehouseInventoryManagement.")
		p.OnProgress(ctx, usecase.ProgressEvent{
			Stage:    usecase.StageMigrationCompleted,
			Metadata: &usecase.MigrationStepResult{Status: domain.MigrationSkipped},
		})

		assert.Contains(t, buf.String(), "Cannot deploy WarehouseInventoryManagement.")
		assert.Contains(t, buf.String(), "skipped, prerequisites missing")
	})

	t.Run("unexpected metadata is ignored", func(t *testing.T) {
		p, buf := newTestProgress()

		p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageMigrationStarting, Metadata: "nope"})
		p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageLoading, Message: "Loading"})

		assert.Empty(t, buf.String())
	})
}
