package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// DefaultBinary is the development chain started by `sling node start`
const DefaultBinary = "anvil"

// Manager runs anvil processes tracked by pid files in the data directory
type Manager struct {
	dataDir string
	binary  string
	ready   []retry.Option
	log     *slog.Logger
}

// NewManager creates a node manager writing its files under cfg.DataDir
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dataDir: cfg.DataDir,
		binary:  DefaultBinary,
		ready: []retry.Option{
			retry.Attempts(40),
			retry.Delay(250 * time.Millisecond),
			retry.LastErrorOnly(true),
		},
		log: log.With("component", "NodeManager"),
	}
}

// Start launches the node in the background and waits until it answers RPC
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", m.binary, err)
	}
	pid := cmd.Process.Pid
	m.log.Debug("node process started", "name", instance.Name, "pid", pid, "args", cmd.Args)

	if err := writePidFile(instance.PidFile, pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// reap the child when it exits so a crash is visible to isRunning
	go func() { _ = cmd.Wait() }()

	err = retry.Do(func() error {
		_, err := networkID(ctx, rpcURL(instance))
		return err
	}, append([]retry.Option{retry.Context(ctx)}, m.ready...)...)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = os.Remove(instance.PidFile)
		return fmt.Errorf("node did not become ready (see %s): %w", instance.LogFile, err)
	}

	return nil
}

// Stop terminates the node recorded in the pid file
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports whether the node process lives and whether its RPC answers
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)

	status := &domain.NodeStatus{
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return status, nil
		}
		status.Error = err.Error()
		return status, nil
	}
	if !isRunning(pid) {
		status.Error = fmt.Sprintf("stale PID file %s (process %d has exited)", instance.PidFile, pid)
		return status, nil
	}

	status.Running = true
	status.PID = pid

	id, err := networkID(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.NetworkID = id
	return status, nil
}

// setFilePaths puts pid and log files under the data directory unless already set
func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if instance.Name == "" {
		instance.Name = config.DefaultNetwork
	}
	if instance.Host == "" {
		instance.Host = config.DefaultHost
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.dataDir, fmt.Sprintf("node-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.dataDir, fmt.Sprintf("node-%s.log", instance.Name))
	}
}

func buildArgs(instance *domain.NodeInstance) []string {
	args := []string{"--host", instance.Host, "--port", instance.Port}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.NodeInstance) string {
	return "http://" + net.JoinHostPort(instance.Host, instance.Port)
}

// networkID asks the node for net_version
func networkID(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return "", err
	}
	defer client.Close()

	var id string
	if err := client.CallContext(ctx, &id, "net_version"); err != nil {
		return "", fmt.Errorf("RPC not responding: %w", err)
	}
	return id, nil
}

func isRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.NodeManager = (*Manager)(nil)
