package blockchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// Deployer sends contract creations through the connected Client
type Deployer struct {
	client *Client
	log    *slog.Logger
}

// NewDeployer creates a deployer bound to client
func NewDeployer(client *Client, log *slog.Logger) *Deployer {
	return &Deployer{
		client: client,
		log:    log.With("component", "Deployer"),
	}
}

// sendTxArgs is the eth_sendTransaction request object
type sendTxArgs struct {
	From     common.Address  `json:"from"`
	Data     hexutil.Bytes   `json:"data"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
}

// Deploy sends the creation transaction, waits for it to be mined and for the
// configured confirmations, then checks that code landed at the new address
func (d *Deployer) Deploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error) {
	if req.ABI == nil {
		return nil, fmt.Errorf("%s has no abi", req.ContractName)
	}
	if req.Sender == nil {
		return nil, fmt.Errorf("%s has no sender", req.ContractName)
	}
	rc, eth, err := d.client.clients()
	if err != nil {
		return nil, err
	}
	chain := d.client.Chain()

	input, err := req.ABI.Pack("", req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	var txHash common.Hash
	switch req.Sender.Type {
	case domain.SenderTypePrivateKey:
		if req.Sender.Key == nil {
			return nil, fmt.Errorf("sender %s has no private key", req.Sender.Name)
		}
		opts := bind.NewKeyedTransactor(req.Sender.Key, new(big.Int).SetUint64(chain.ChainID))
		opts.Context = ctx
		opts.GasLimit = req.Gas
		opts.GasPrice = req.GasPrice

		_, tx, err := bind.DeployContract(opts, bytes.Clone(req.Bytecode), eth, input)
		if err != nil {
			return nil, fmt.Errorf("failed to send deployment: %w", err)
		}
		txHash = tx.Hash()

	case domain.SenderTypeUnlocked:
		args := sendTxArgs{
			From: req.Sender.Address,
			Data: append(bytes.Clone(req.Bytecode), input...),
		}
		if req.Gas > 0 {
			gas := hexutil.Uint64(req.Gas)
			args.Gas = &gas
		}
		if req.GasPrice != nil {
			args.GasPrice = (*hexutil.Big)(req.GasPrice)
		}
		if err := rc.CallContext(ctx, &txHash, "eth_sendTransaction", args); err != nil {
			return nil, fmt.Errorf("failed to send deployment: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported sender type %q", req.Sender.Type)
	}

	d.log.Info("deployment sent, waiting for receipt", "contract", req.ContractName, "tx", txHash.Hex())

	receipt, err := bind.WaitMined(ctx, eth, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", txHash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s in block %d", domain.ErrDeploymentReverted, txHash.Hex(), receipt.BlockNumber.Uint64())
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, errors.New("receipt has no contract address")
	}

	if err := d.client.WaitConfirmations(ctx, receipt.BlockNumber.Uint64(), req.Confirmations); err != nil {
		return nil, err
	}

	code, err := eth.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to verify deployment: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s after deployment", domain.ErrDeploymentReverted, receipt.ContractAddress.Hex())
	}

	return &domain.DeployResult{
		Address:         receipt.ContractAddress,
		TransactionHash: txHash,
		BlockNumber:     receipt.BlockNumber.Uint64(),
		GasUsed:         receipt.GasUsed,
		ConstructorArgs: input,
	}, nil
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
