package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string // start, stop, restart, status
	Network   string // defaults to the active network
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string
	Instance  *domain.NodeInstance
	Status    *domain.NodeStatus
	Success   bool
	Message   string
}

// ManageNode runs the local development chain behind a configured network
type ManageNode struct {
	config   *config.RuntimeConfig
	manager  NodeManager
	progress ProgressSink
}

// NewManageNode creates a new node management use case
func NewManageNode(cfg *config.RuntimeConfig, manager NodeManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		config:   cfg,
		manager:  manager,
		progress: progress,
	}
}

// Execute performs the node management operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance, err := m.instanceFor(params.Network)
	if err != nil {
		return nil, err
	}

	switch params.Operation {
	case "start":
		return m.start(ctx, instance)
	case "stop":
		return m.stop(ctx, instance)
	case "restart":
		return m.restart(ctx, instance)
	case "status":
		return m.status(ctx, instance)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

// instanceFor maps a network's host, port and numeric network id onto a node
func (m *ManageNode) instanceFor(name string) (*domain.NodeInstance, error) {
	if name == "" {
		name = m.config.NetworkName
	}
	netCfg, ok := m.config.Project.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' is not declared in sling.toml", domain.ErrNetworkNotConfigured, name)
	}
	if netCfg.URL != "" || netCfg.Port == 0 {
		return nil, fmt.Errorf("network %s is not a local node: it must declare host and port instead of url", name)
	}

	instance := &domain.NodeInstance{
		Name: name,
		Host: netCfg.Host,
		Port: strconv.Itoa(netCfg.Port),
	}
	if instance.Host == "" {
		instance.Host = config.DefaultHost
	}
	if _, err := strconv.ParseUint(string(netCfg.NetworkID), 10, 64); err == nil {
		instance.ChainID = string(netCfg.NetworkID)
	}
	return instance, nil
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Starting local node '%s' on %s:%s...", instance.Name, instance.Host, instance.Port))

	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.manager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageNodeResult{
		Operation: "start",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Node '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Stopping node '%s'...", instance.Name))

	status, err := m.manager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageNodeResult{
			Operation: "stop",
			Instance:  instance,
			Success:   true,
			Message:   fmt.Sprintf("Node '%s' is not running", instance.Name),
		}, nil
	}

	if err := m.manager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop node: %w", err)
	}

	return &ManageNodeResult{
		Operation: "stop",
		Instance:  instance,
		Success:   true,
		Message:   fmt.Sprintf("Node '%s' stopped", instance.Name),
	}, nil
}

func (m *ManageNode) restart(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Restarting node '%s'...", instance.Name))

	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.manager.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop node: %w", err)
		}
	}

	if err := m.manager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after restart: %w", err)
	}

	return &ManageNodeResult{
		Operation: "restart",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Node '%s' restarted with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) status(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &ManageNodeResult{
		Operation: "status",
		Instance:  instance,
		Status:    status,
		Success:   true,
	}, nil
}
