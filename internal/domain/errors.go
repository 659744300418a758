package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrNotDeployed is returned when a contract has no live instance on the active network
	ErrNotDeployed = errors.New("contract not deployed")

	// ErrContractNotFound is returned when no artifact exists for a contract name
	ErrContractNotFound = errors.New("contract not found")

	// ErrNoBytecode is returned for artifacts that cannot be deployed (interfaces, abstract contracts)
	ErrNoBytecode = errors.New("artifact has no deployable bytecode")

	// ErrCompilerMismatch is returned when an artifact was built with another compiler than the pinned one
	ErrCompilerMismatch = errors.New("compiler version mismatch")

	// ErrNetworkMismatch is returned when the node reports a different network id than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNetworkNotConfigured is returned when the selected network has no configuration
	ErrNetworkNotConfigured = errors.New("network not configured")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDeploymentReverted is returned when a deployment transaction was mined but failed
	ErrDeploymentReverted = errors.New("deployment transaction reverted")

	// ErrMigrationsSkipped is returned in strict mode when prerequisites were missing
	ErrMigrationsSkipped = errors.New("migrations skipped")
)

// NotDeployedErr carries the contract and the reason it counts as not deployed
type NotDeployedErr struct {
	Contract string
	Network  string
	Reason   string
}

func (e *NotDeployedErr) Error() string {
	return fmt.Sprintf("%s has not been deployed to network %s: %s", e.Contract, e.Network, e.Reason)
}

func (e *NotDeployedErr) Unwrap() error {
	return ErrNotDeployed
}
