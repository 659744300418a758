package domain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Network is a resolved network the tool talks to
type Network struct {
	Name          string   `json:"name"`
	RPCURL        string   `json:"rpcUrl"`
	NetworkID     string   `json:"networkId"` // "*" or empty matches any node
	From          string   `json:"from,omitempty"`
	Gas           uint64   `json:"gas,omitempty"`
	GasPrice      *big.Int `json:"gasPrice,omitempty"`
	Confirmations uint64   `json:"confirmations,omitempty"`
}

// MatchesNetworkID reports whether a node-reported network id satisfies the configured one
func (n *Network) MatchesNetworkID(id string) bool {
	if n.NetworkID == "" || n.NetworkID == "*" {
		return true
	}
	return n.NetworkID == id
}

// ChainInfo is what the node reports about itself after connecting
type ChainInfo struct {
	ChainID   uint64 `json:"chainId"`
	NetworkID string `json:"networkId"`
}

// Deployment represents a contract deployment record
type Deployment struct {
	ID              string    `json:"id"` // e.g. "development/1337/RoleManagement"
	Network         string    `json:"network"`
	ChainID         uint64    `json:"chainId"`
	ContractName    string    `json:"contractName"`
	Address         string    `json:"address"`
	TransactionHash string    `json:"transactionHash"`
	BlockNumber     uint64    `json:"blockNumber"`
	Deployer        string    `json:"deployer"`
	ConstructorArgs string    `json:"constructorArgs,omitempty"` // hex encoded
	Migration       int       `json:"migration"`
	Artifact        Artifact  `json:"artifact"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DeploymentID builds the registry identifier for a contract on a network
func DeploymentID(network string, chainID uint64, contract string) string {
	return fmt.Sprintf("%s/%d/%s", network, chainID, contract)
}

// DeploymentFilter selects deployments from the registry
type DeploymentFilter struct {
	Network      string
	ChainID      uint64
	ContractName string
}

// Artifact is a compiled contract as produced by the external compiler
type Artifact struct {
	Name            string                     `json:"name"`
	Path            string                     `json:"path"`
	CompilerVersion string                     `json:"compilerVersion"`
	ABI             *abi.ABI                   `json:"-"`
	Bytecode        []byte                     `json:"-"`
	Networks        map[string]ArtifactNetwork `json:"-"` // keyed by network id
}

// ArtifactNetwork is a deployment recorded inside a build artifact
type ArtifactNetwork struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// SenderType identifies how transactions are authorized
type SenderType string

const (
	// SenderTypeUnlocked sends through eth_sendTransaction on an account the node manages
	SenderTypeUnlocked SenderType = "unlocked"
	// SenderTypePrivateKey signs locally
	SenderTypePrivateKey SenderType = "private_key"
)

// Sender is a resolved transaction sender
type Sender struct {
	Name    string            `json:"name"`
	Type    SenderType        `json:"type"`
	Address common.Address    `json:"address"`
	Key     *ecdsa.PrivateKey `json:"-"` // nil for unlocked senders; never serialized
}

// ResolvedContract is a prerequisite contract with its live address
type ResolvedContract struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Source  string `json:"source"` // "registry", "artifact" or "run"
}

// DeployRequest describes one contract creation
type DeployRequest struct {
	ContractName  string
	ABI           *abi.ABI
	Bytecode      []byte
	Args          []any // already coerced to ABI types
	Sender        *Sender
	Gas           uint64
	GasPrice      *big.Int
	Confirmations uint64
}

// DeployResult is the confirmed outcome of a contract creation
type DeployResult struct {
	Address         common.Address
	TransactionHash common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	ConstructorArgs []byte
}
