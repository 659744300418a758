package usecase

import (
	"context"
	"fmt"
)

// InitProject scaffolds a new sling project in the working directory
type InitProject struct {
	writer   ProjectWriter
	progress ProgressSink
}

// NewInitProject creates a new init project use case
func NewInitProject(writer ProjectWriter, progress ProgressSink) *InitProject {
	return &InitProject{
		writer:   writer,
		progress: progress,
	}
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Message string
	Error   error
}

const slingToml = `# sling.toml

[networks.development]
host = "127.0.0.1"
port = 7545
network_id = "5777"
# from = "accounts[0]"
# gas = 6721975
# gas_price = "20000000000"

# [networks.sepolia]
# url = "${SEPOLIA_RPC_URL}"
# network_id = "11155111"
# from = "deployer"
# confirmations = 2

[compilers.solc]
version = "0.8.0"

[contracts]
artifacts = "build/contracts"

# [senders.deployer]
# type = "private_key"
# private_key = "${DEPLOYER_PRIVATE_KEY}"

[migrations]
file = "migrations.yaml"
`

const migrationsYaml = `# Migrations run in ascending number. A migration whose prerequisites are
# not deployed on the network is skipped and retried on the next run.
migrations:
  - number: 2
    name: role_management
    contract: RoleManagement

  - number: 5
    name: warehouse_inventory
    contract: WarehouseInventoryManagement
    from: accounts[0]
    args:
      - ref: RoleManagement
`

const envExample = `# sling environment

# Private keys (for deployment from [senders.*])
DEPLOYER_PRIVATE_KEY=

# RPC URLs
SEPOLIA_RPC_URL=
`

// Execute creates the project files that do not exist yet
func (i *InitProject) Execute(ctx context.Context) (*InitProjectResult, error) {
	result := &InitProjectResult{}

	result.AlreadyInitialized = i.writer.FileExists("sling.toml")

	steps := []struct {
		name    string
		path    string
		content string
	}{
		{"Create sling.toml", "sling.toml", slingToml},
		{"Create migrations.yaml", "migrations.yaml", migrationsYaml},
		{"Create .env.example", ".env.example", envExample},
	}

	dataDir := InitStep{Name: "Create data directory", Success: true, Message: "Created .sling/"}
	if err := i.writer.EnsureDir(".sling"); err != nil {
		dataDir.Success = false
		dataDir.Error = fmt.Errorf("failed to create .sling directory: %w", err)
		result.Steps = append(result.Steps, dataDir)
		return result, dataDir.Error
	}
	result.Steps = append(result.Steps, dataDir)

	for _, s := range steps {
		step := i.createFile(s.name, s.path, s.content)
		result.Steps = append(result.Steps, step)
		if step.Error != nil {
			return result, step.Error
		}
		i.progress.Info(step.Message)
	}

	return result, nil
}

func (i *InitProject) createFile(name, path, content string) InitStep {
	if i.writer.FileExists(path) {
		return InitStep{
			Name:    name,
			Success: true,
			Message: path + " already exists",
		}
	}

	if err := i.writer.WriteFile(path, []byte(content)); err != nil {
		return InitStep{
			Name:    name,
			Success: false,
			Error:   fmt.Errorf("failed to create %s: %w", path, err),
		}
	}

	return InitStep{
		Name:    name,
		Success: true,
		Message: "Created " + path,
	}
}
