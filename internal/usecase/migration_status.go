package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// MigrationStatusEntry is one migration with its state on the network
type MigrationStatusEntry struct {
	Migration *domain.Migration
	Requires  []string
	Status    domain.MigrationStatus
	Record    *domain.MigrationRecord
}

// MigrationStatusResult contains the migration state of the active network
type MigrationStatusResult struct {
	Network   *domain.Network
	Chain     *domain.ChainInfo
	PlanPath  string
	Entries   []*MigrationStatusEntry
	Completed int
	Pending   int
}

// MigrationStatus reports which migrations ran on the active network
type MigrationStatus struct {
	config *config.RuntimeConfig
	plans  PlanLoader
	chain  ChainClient
	states MigrationStateStore
	sink   ProgressSink
}

// NewMigrationStatus creates a new MigrationStatus use case
func NewMigrationStatus(cfg *config.RuntimeConfig, plans PlanLoader, chain ChainClient, states MigrationStateStore, sink ProgressSink) *MigrationStatus {
	return &MigrationStatus{
		config: cfg,
		plans:  plans,
		chain:  chain,
		states: states,
		sink:   sink,
	}
}

// Run executes the use case
func (uc *MigrationStatus) Run(ctx context.Context) (*MigrationStatusResult, error) {
	network, err := activeNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	plan, err := uc.plans.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	execPlan, err := BuildExecutionPlan(plan)
	if err != nil {
		return nil, fmt.Errorf("invalid migration plan: %w", err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s (%s)", network.Name, network.RPCURL),
		Spinner: true,
	})
	chain, err := uc.chain.Connect(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to network %s: %w", network.Name, err)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageConnected, Metadata: chain})

	state, err := uc.states.Load(ctx, network.Name, chain.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load migration state: %w", err)
	}

	result := &MigrationStatusResult{
		Network:  network,
		Chain:    chain,
		PlanPath: execPlan.Path,
	}
	for _, step := range execPlan.Steps {
		entry := &MigrationStatusEntry{
			Migration: step.Migration,
			Requires:  step.Requires,
			Status:    domain.MigrationPending,
		}
		if record, ok := state.Completed[step.Migration.Number]; ok {
			entry.Status = domain.MigrationCompleted
			entry.Record = record
			result.Completed++
		} else {
			result.Pending++
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}
