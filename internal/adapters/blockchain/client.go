package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

var (
	rtyAtt = retry.Attempts(3)
	rtyDel = retry.Delay(400 * time.Millisecond)
	rtyErr = retry.LastErrorOnly(true)
)

// Client implements ChainClient on top of ethclient
type Client struct {
	mu      sync.RWMutex
	rpc     *rpc.Client
	eth     *ethclient.Client
	network *domain.Network
	chain   *domain.ChainInfo
	poll    time.Duration
	log     *slog.Logger
}

// NewClient creates an unconnected client
func NewClient(log *slog.Logger) *Client {
	return &Client{
		poll: time.Second,
		log:  log.With("component", "ChainClient"),
	}
}

// Connect dials the network and checks that the node is the configured one
func (c *Client) Connect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil && c.network != nil && c.network.RPCURL == network.RPCURL {
		// networks sharing a URL may pin different ids
		if err := checkNetworkID(network, c.chain); err != nil {
			return nil, err
		}
		c.network = network
		return c.chain, nil
	}
	c.closeLocked()

	var (
		rpcClient *rpc.Client
		info      *domain.ChainInfo
	)
	err := retry.Do(func() error {
		rc, err := rpc.DialContext(ctx, network.RPCURL)
		if err != nil {
			return err
		}
		eth := ethclient.NewClient(rc)

		chainID, err := eth.ChainID(ctx)
		if err != nil {
			rc.Close()
			return fmt.Errorf("failed to get chain ID: %w", err)
		}
		networkID, err := eth.NetworkID(ctx)
		if err != nil {
			rc.Close()
			return fmt.Errorf("failed to get network ID: %w", err)
		}

		rpcClient = rc
		info = &domain.ChainInfo{ChainID: chainID.Uint64(), NetworkID: networkID.String()}
		return nil
	}, retry.Context(ctx), rtyAtt, rtyDel, rtyErr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", network.RPCURL, err)
	}

	if err := checkNetworkID(network, info); err != nil {
		rpcClient.Close()
		return nil, err
	}

	c.rpc = rpcClient
	c.eth = ethclient.NewClient(rpcClient)
	c.network = network
	c.chain = info
	c.log.Debug("connected", "network", network.Name, "chainId", info.ChainID, "networkId", info.NetworkID)

	return info, nil
}

func checkNetworkID(network *domain.Network, info *domain.ChainInfo) error {
	if !network.MatchesNetworkID(info.NetworkID) {
		return fmt.Errorf("%w: %s expects network id %s, node reports %s",
			domain.ErrNetworkMismatch, network.Name, network.NetworkID, info.NetworkID)
	}
	return nil
}

// Accounts returns the accounts the node manages (eth_accounts)
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	rc, _, err := c.clients()
	if err != nil {
		return nil, err
	}
	var accounts []common.Address
	if err := rc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// CodeAt returns the code at address in the latest block
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	_, eth, err := c.clients()
	if err != nil {
		return nil, err
	}
	return eth.CodeAt(ctx, address, nil)
}

// WaitConfirmations blocks until the head is `confirmations` blocks past block
func (c *Client) WaitConfirmations(ctx context.Context, block, confirmations uint64) error {
	if confirmations == 0 {
		return nil
	}
	_, eth, err := c.clients()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		head, err := eth.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to get block number: %w", err)
		}
		if head >= block+confirmations {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Chain returns what the connected node reported, nil before Connect
func (c *Client) Chain() *domain.ChainInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chain
}

// Close drops the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.rpc != nil {
		c.rpc.Close()
	}
	c.rpc, c.eth, c.network, c.chain = nil, nil, nil, nil
}

func (c *Client) clients() (*rpc.Client, *ethclient.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.eth == nil {
		return nil, nil, fmt.Errorf("not connected to a network")
	}
	return c.rpc, c.eth, nil
}

var _ usecase.ChainClient = (*Client)(nil)
