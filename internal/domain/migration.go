package domain

import (
	"fmt"
	"sort"
	"time"
)

// ArgKind identifies how a constructor argument gets its value
type ArgKind string

const (
	ArgLiteral ArgKind = "value"
	ArgRef     ArgKind = "ref"     // address of a deployed contract
	ArgAccount ArgKind = "account" // node account by index
	ArgEnv     ArgKind = "env"     // environment variable
)

// Arg is a constructor argument as written in the migration plan
type Arg struct {
	Kind    ArgKind
	Value   any
	Ref     string
	Account int
	Env     string
}

func (a Arg) String() string {
	switch a.Kind {
	case ArgRef:
		return "ref:" + a.Ref
	case ArgAccount:
		return fmt.Sprintf("accounts[%d]", a.Account)
	case ArgEnv:
		return "env:" + a.Env
	default:
		return fmt.Sprint(a.Value)
	}
}

// Migration is one numbered deployment step
type Migration struct {
	Number   int
	Name     string
	Contract string
	From     string
	Args     []Arg
	Requires []string // explicit prerequisites on top of ref arguments
}

// DisplayName returns "5_warehouse_inventory" style names
func (m *Migration) DisplayName() string {
	if m.Name == "" {
		return fmt.Sprintf("%d_%s", m.Number, m.Contract)
	}
	return fmt.Sprintf("%d_%s", m.Number, m.Name)
}

// MigrationPlan is the parsed migrations file
type MigrationPlan struct {
	Path       string
	Migrations []*Migration
}

// MigrationStatus is the outcome of a migration in a run
type MigrationStatus string

const (
	MigrationCompleted MigrationStatus = "completed"
	MigrationSkipped   MigrationStatus = "skipped"
	MigrationPending   MigrationStatus = "pending"
	MigrationDryRun    MigrationStatus = "dry-run"
)

// MigrationRecord marks a migration as completed on a network
type MigrationRecord struct {
	Number          int       `json:"number"`
	Name            string    `json:"name"`
	Contract        string    `json:"contract"`
	DeploymentID    string    `json:"deploymentId"`
	TransactionHash string    `json:"transactionHash"`
	CompletedAt     time.Time `json:"completedAt"`
}

// MigrationState is the completion state of a plan on one network
type MigrationState struct {
	Network   string                   `json:"network"`
	ChainID   uint64                   `json:"chainId"`
	Completed map[int]*MigrationRecord `json:"completed"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// NewMigrationState returns an empty state for a network
func NewMigrationState(network string, chainID uint64) *MigrationState {
	return &MigrationState{
		Network:   network,
		ChainID:   chainID,
		Completed: make(map[int]*MigrationRecord),
	}
}

// IsCompleted reports whether a migration number has been recorded
func (s *MigrationState) IsCompleted(number int) bool {
	if s == nil {
		return false
	}
	_, ok := s.Completed[number]
	return ok
}

// LastCompleted returns the highest completed migration number, or 0
func (s *MigrationState) LastCompleted() int {
	if s == nil || len(s.Completed) == 0 {
		return 0
	}
	numbers := make([]int, 0, len(s.Completed))
	for n := range s.Completed {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers[len(numbers)-1]
}

// MigrationStateKey is the storage key for a network's state
func MigrationStateKey(network string, chainID uint64) string {
	return fmt.Sprintf("%s/%d", network, chainID)
}
