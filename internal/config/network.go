package config

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NetworkResolver resolves network names to configurations and caches
// what the endpoints report about themselves
type NetworkResolver struct {
	dataDir  string
	networks map[string]config.NetworkConfig
	cache    *NetworkCache
	timeout  time.Duration
	mu       sync.RWMutex
}

// NetworkCache caches chain and network id lookups per RPC URL
type NetworkCache struct {
	RPCs      map[string]domain.ChainInfo `json:"rpcs"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	r := &NetworkResolver{
		dataDir: cfg.DataDir,
		timeout: 5 * time.Second,
	}
	if cfg.Project != nil {
		r.networks = cfg.Project.Networks
	}

	r.loadCache()

	return r
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(name string) (*domain.Network, error) {
	nc, exists := r.networks[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s' not found in %s [networks]", domain.ErrNetworkNotConfigured, name, ProjectFile)
	}

	rpcURL, err := nc.RPCURL()
	if err != nil {
		return nil, fmt.Errorf("network '%s': %w", name, err)
	}

	network := &domain.Network{
		Name:          name,
		RPCURL:        rpcURL,
		NetworkID:     string(nc.NetworkID),
		From:          nc.From,
		Gas:           nc.Gas,
		Confirmations: nc.Confirmations,
	}

	if nc.GasPrice != "" {
		price, ok := new(big.Int).SetString(strings.TrimSpace(nc.GasPrice), 10)
		if !ok || price.Sign() < 0 {
			return nil, fmt.Errorf("network '%s': invalid gas_price %q", name, nc.GasPrice)
		}
		network.GasPrice = price
	}

	return network, nil
}

// Names returns configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect asks the endpoint for its chain id and network id, using the cache when possible
func (r *NetworkResolver) Detect(ctx context.Context, network *domain.Network) (*domain.ChainInfo, error) {
	r.mu.RLock()
	info, cached := r.cache.RPCs[network.RPCURL]
	r.mu.RUnlock()
	if cached {
		return &info, nil
	}

	fetched, err := r.fetchChainInfo(ctx, network.RPCURL)
	if err != nil {
		return nil, err
	}

	r.updateCache(network.RPCURL, *fetched)
	return fetched, nil
}

// fetchChainInfo queries eth_chainId and net_version
func (r *NetworkResolver) fetchChainInfo(ctx context.Context, rpcURL string) (*domain.ChainInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	var chainID hexutil.Uint64
	if err := client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return nil, fmt.Errorf("failed to fetch chain ID: %w", err)
	}

	var networkID string
	if err := client.CallContext(ctx, &networkID, "net_version"); err != nil {
		return nil, fmt.Errorf("failed to fetch network ID: %w", err)
	}

	return &domain.ChainInfo{
		ChainID:   uint64(chainID),
		NetworkID: networkID,
	}, nil
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "networks.json")
}

// loadCache loads the cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]domain.ChainInfo)}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	var loaded NetworkCache
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.RPCs == nil {
		// Invalid cache, start fresh
		return
	}
	r.cache = &loaded
}

// updateCache records fresh chain info and persists it
func (r *NetworkResolver) updateCache(rpcURL string, info domain.ChainInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.RPCs[rpcURL] = info
	r.cache.UpdatedAt = time.Now()

	// Cache is only an optimization, ignore write errors
	_ = r.saveCache()
}

// Forget drops a cached entry, used after a local node restarts
func (r *NetworkResolver) Forget(rpcURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache.RPCs, rpcURL)
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if r.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}

var _ usecase.NetworkResolver = (*NetworkResolver)(nil)
