package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// DefaultSender is used when neither the migration nor the network names one
const DefaultSender = "accounts[0]"

// RunMigrationsParams contains parameters for a migration run
type RunMigrationsParams struct {
	DryRun bool
	Reset  bool
	Strict bool
	From   int
	To     int
}

// MigrationStepResult is the outcome of one migration
type MigrationStepResult struct {
	Step          *ExecutionStep
	Status        domain.MigrationStatus
	Prerequisites []*domain.ResolvedContract
	Missing       []error
	Sender        *domain.Sender
	Deployment    *domain.Deployment
	GasUsed       uint64
}

// RunMigrationsResult contains the result of a migration run
type RunMigrationsResult struct {
	Network      *domain.Network
	Chain        *domain.ChainInfo
	Plan         *ExecutionPlan
	Steps        []*MigrationStepResult
	UpToDate     int
	Deployed     int
	Skipped      int
	SkippedNames []string
	DryRun       bool
}

// RunMigrations runs pending migrations against the active network
type RunMigrations struct {
	config    *config.RuntimeConfig
	plans     PlanLoader
	chain     ChainClient
	resolver  *ResolveDeployed
	artifacts ArtifactRepository
	senders   SenderResolver
	encoder   ArgumentEncoder
	deployer  ContractDeployer
	repo      DeploymentRepository
	states    MigrationStateStore
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	cfg *config.RuntimeConfig,
	plans PlanLoader,
	chain ChainClient,
	resolver *ResolveDeployed,
	artifacts ArtifactRepository,
	senders SenderResolver,
	encoder ArgumentEncoder,
	deployer ContractDeployer,
	repo DeploymentRepository,
	states MigrationStateStore,
	sink ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	return &RunMigrations{
		config:    cfg,
		plans:     plans,
		chain:     chain,
		resolver:  resolver,
		artifacts: artifacts,
		senders:   senders,
		encoder:   encoder,
		deployer:  deployer,
		repo:      repo,
		states:    states,
		sink:      sink,
		log:       log.With("component", "RunMigrations"),
		now:       time.Now,
	}
}

// dryRunAddress stands in for contracts that a dry run would have deployed
var dryRunAddress = common.Address{}

// Run executes the migration plan
func (uc *RunMigrations) Run(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
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

	if params.Reset && !params.DryRun {
		if err := uc.states.Reset(ctx, network.Name, chain.ChainID); err != nil {
			return nil, fmt.Errorf("failed to reset migration state: %w", err)
		}
	}
	state, err := uc.states.Load(ctx, network.Name, chain.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load migration state: %w", err)
	}

	result := &RunMigrationsResult{
		Network: network,
		Chain:   chain,
		Plan:    execPlan,
		DryRun:  params.DryRun,
	}

	// Addresses produced during this run take precedence over lookups
	produced := make(map[string]string)
	steps := execPlan.Filter(params.From, params.To)

	for i, step := range steps {
		m := step.Migration

		if !params.Reset && state.IsCompleted(m.Number) {
			live, err := uc.stillLive(ctx, network, chain, m)
			if err != nil {
				return result, err
			}
			if live {
				result.UpToDate++
				continue
			}
			uc.sink.Info(fmt.Sprintf("Migration %s was recorded but %s is gone from the chain; running it again", m.DisplayName(), m.Contract))
			if !params.DryRun {
				if err := uc.states.Unmark(ctx, network.Name, chain.ChainID, m.Number); err != nil {
					return result, fmt.Errorf("failed to update migration state: %w", err)
				}
			}
		}

		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    StageMigrationStarting,
			Current:  i + 1,
			Total:    len(steps),
			Message:  fmt.Sprintf("Running migration: %s", m.DisplayName()),
			Metadata: step,
		})

		stepResult, err := uc.runStep(ctx, network, chain, step, produced, params)
		if stepResult != nil {
			result.Steps = append(result.Steps, stepResult)
		}
		if err != nil {
			return result, fmt.Errorf("migration %s: %w", m.DisplayName(), err)
		}

		switch stepResult.Status {
		case domain.MigrationSkipped:
			result.Skipped++
			result.SkippedNames = append(result.SkippedNames, m.DisplayName())
		case domain.MigrationCompleted:
			result.Deployed++
		}

		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    StageMigrationCompleted,
			Current:  i + 1,
			Total:    len(steps),
			Metadata: stepResult,
		})
	}

	if params.Strict && result.Skipped > 0 {
		return result, fmt.Errorf("%w: %v", domain.ErrMigrationsSkipped, result.SkippedNames)
	}

	return result, nil
}

// runStep resolves prerequisites and deploys one migration's contract
func (uc *RunMigrations) runStep(
	ctx context.Context,
	network *domain.Network,
	chain *domain.ChainInfo,
	step *ExecutionStep,
	produced map[string]string,
	params RunMigrationsParams,
) (*MigrationStepResult, error) {
	m := step.Migration
	res := &MigrationStepResult{Step: step}

	for _, name := range step.Requires {
		if addr, ok := produced[name]; ok {
			res.Prerequisites = append(res.Prerequisites, &domain.ResolvedContract{Name: name, Address: addr, Source: "run"})
			continue
		}

		resolved, err := uc.resolver.Resolve(ctx, network, chain, name)
		if errors.Is(err, domain.ErrNotDeployed) {
			res.Missing = append(res.Missing, err)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Prerequisites = append(res.Prerequisites, resolved)
	}

	if len(res.Missing) > 0 {
		res.Status = domain.MigrationSkipped
		for _, missing := range res.Missing {
			uc.sink.Error(fmt.Sprintf("ERROR: %v. Cannot deploy %s.", missing, m.Contract))
			uc.log.Error("prerequisite not deployed, skipping migration",
				"migration", m.DisplayName(), "contract", m.Contract, "error", missing)
		}
		return res, nil
	}

	uc.sink.Info(fmt.Sprintf("Deploying %s with:", m.Contract))
	for _, pre := range res.Prerequisites {
		uc.sink.Info(fmt.Sprintf("  - %s at: %s", pre.Name, pre.Address))
	}

	artifact, err := uc.artifacts.Get(ctx, m.Contract)
	if err != nil {
		return res, err
	}

	from := m.From
	if from == "" {
		from = network.From
	}
	if from == "" {
		from = DefaultSender
	}
	sender, err := uc.senders.Resolve(ctx, from)
	if err != nil {
		return res, fmt.Errorf("failed to resolve sender %q: %w", from, err)
	}
	res.Sender = sender

	values, err := uc.argumentValues(ctx, m, res.Prerequisites)
	if err != nil {
		return res, err
	}
	args, err := uc.encoder.Coerce(artifact.ABI.Constructor.Inputs, values)
	if err != nil {
		return res, fmt.Errorf("invalid constructor arguments for %s: %w", m.Contract, err)
	}

	if params.DryRun {
		res.Status = domain.MigrationDryRun
		produced[m.Contract] = dryRunAddress.Hex()
		uc.sink.Info(fmt.Sprintf("Would deploy %s from %s (dry run)", m.Contract, sender.Address.Hex()))
		return res, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s", m.Contract),
		Spinner: true,
	})
	deployed, err := uc.deployer.Deploy(ctx, domain.DeployRequest{
		ContractName:  m.Contract,
		ABI:           artifact.ABI,
		Bytecode:      artifact.Bytecode,
		Args:          args,
		Sender:        sender,
		Gas:           network.Gas,
		GasPrice:      network.GasPrice,
		Confirmations: network.Confirmations,
	})
	if err != nil {
		return res, fmt.Errorf("failed to deploy %s: %w", m.Contract, err)
	}
	res.GasUsed = deployed.GasUsed

	now := uc.now()
	deployment := &domain.Deployment{
		ID:              domain.DeploymentID(network.Name, chain.ChainID, m.Contract),
		Network:         network.Name,
		ChainID:         chain.ChainID,
		ContractName:    m.Contract,
		Address:         deployed.Address.Hex(),
		TransactionHash: deployed.TransactionHash.Hex(),
		BlockNumber:     deployed.BlockNumber,
		Deployer:        sender.Address.Hex(),
		Migration:       m.Number,
		Artifact:        *artifact,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(deployed.ConstructorArgs) > 0 {
		deployment.ConstructorArgs = hexutil.Encode(deployed.ConstructorArgs)
	}

	if err := uc.repo.SaveDeployment(ctx, deployment); err != nil {
		return res, fmt.Errorf("failed to record deployment: %w", err)
	}
	if err := uc.states.MarkCompleted(ctx, network.Name, chain.ChainID, &domain.MigrationRecord{
		Number:          m.Number,
		Name:            m.Name,
		Contract:        m.Contract,
		DeploymentID:    deployment.ID,
		TransactionHash: deployment.TransactionHash,
		CompletedAt:     now,
	}); err != nil {
		return res, fmt.Errorf("failed to record migration: %w", err)
	}

	produced[m.Contract] = deployment.Address
	res.Deployment = deployment
	res.Status = domain.MigrationCompleted
	uc.sink.Info(fmt.Sprintf("%s deployed at: %s", m.Contract, deployment.Address))

	return res, nil
}

// argumentValues turns plan arguments into raw values
func (uc *RunMigrations) argumentValues(ctx context.Context, m *domain.Migration, prereqs []*domain.ResolvedContract) ([]any, error) {
	addresses := make(map[string]string, len(prereqs))
	for _, p := range prereqs {
		addresses[p.Name] = p.Address
	}

	var accounts []common.Address
	values := make([]any, 0, len(m.Args))

	for i, arg := range m.Args {
		switch arg.Kind {
		case domain.ArgRef:
			addr, ok := addresses[arg.Ref]
			if !ok {
				return nil, fmt.Errorf("argument %d: %s was not resolved", i, arg.Ref)
			}
			values = append(values, addr)
		case domain.ArgAccount:
			if accounts == nil {
				var err error
				if accounts, err = uc.chain.Accounts(ctx); err != nil {
					return nil, fmt.Errorf("failed to list node accounts: %w", err)
				}
			}
			if arg.Account < 0 || arg.Account >= len(accounts) {
				return nil, fmt.Errorf("argument %d: accounts[%d] out of range, node exposes %d accounts", i, arg.Account, len(accounts))
			}
			values = append(values, accounts[arg.Account].Hex())
		case domain.ArgEnv:
			val, ok := os.LookupEnv(arg.Env)
			if !ok {
				return nil, fmt.Errorf("argument %d: environment variable %s is not set", i, arg.Env)
			}
			values = append(values, val)
		default:
			values = append(values, arg.Value)
		}
	}

	return values, nil
}

// stillLive checks that a recorded migration's contract still has code,
// which fails after a development chain was restarted
func (uc *RunMigrations) stillLive(ctx context.Context, network *domain.Network, chain *domain.ChainInfo, m *domain.Migration) (bool, error) {
	_, err := uc.resolver.Resolve(ctx, network, chain, m.Contract)
	if errors.Is(err, domain.ErrNotDeployed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// activeNetwork returns the configured network or explains why there is none
func activeNetwork(cfg *config.RuntimeConfig) (*domain.Network, error) {
	if cfg.Network != nil {
		return cfg.Network, nil
	}
	if cfg.NetworkName == "" {
		return nil, fmt.Errorf("no network selected, use --network or 'sling config set network <name>'")
	}
	return nil, fmt.Errorf("%w: '%s' is not declared in sling.toml", domain.ErrNetworkNotConfigured, cfg.NetworkName)
}
