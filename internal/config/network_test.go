package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// newRPCServer answers eth_chainId and net_version like a Ganache node
func newRPCServer(t *testing.T, chainID, networkID string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch req.Method {
		case "eth_chainId":
			result = chainID
		case "net_version":
			result = networkID
		default:
			http.Error(w, "unexpected method", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

func runtimeConfigFor(t *testing.T, networks map[string]config.NetworkConfig) *config.RuntimeConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.RuntimeConfig{
		ProjectRoot: dir,
		DataDir:     filepath.Join(dir, DataDirName),
		Project:     &config.ProjectConfig{Networks: networks},
	}
}

func TestNetworkResolverResolve(t *testing.T) {
	cfg := runtimeConfigFor(t, map[string]config.NetworkConfig{
		"development": {Host: "127.0.0.1", Port: 7545, NetworkID: "5777"},
		"priced":      {Port: 8545, GasPrice: "20000000000", Gas: 6721975, From: "accounts[1]"},
		"broken":      {Port: 8545, GasPrice: "cheap"},
		"noport":      {Host: "127.0.0.1"},
	})
	resolver := NewNetworkResolver(cfg)

	t.Run("development network", func(t *testing.T) {
		network, err := resolver.Resolve("development")
		require.NoError(t, err)
		assert.Equal(t, "development", network.Name)
		assert.Equal(t, "http://127.0.0.1:7545", network.RPCURL)
		assert.Equal(t, "5777", network.NetworkID)
		assert.Nil(t, network.GasPrice)
	})

	t.Run("gas settings", func(t *testing.T) {
		network, err := resolver.Resolve("priced")
		require.NoError(t, err)
		assert.Equal(t, "20000000000", network.GasPrice.String())
		assert.Equal(t, uint64(6721975), network.Gas)
		assert.Equal(t, "accounts[1]", network.From)
	})

	t.Run("invalid gas price", func(t *testing.T) {
		_, err := resolver.Resolve("broken")
		assert.ErrorContains(t, err, "invalid gas_price")
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := resolver.Resolve("noport")
		assert.ErrorContains(t, err, "url or port")
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := resolver.Resolve("mainnet")
		assert.ErrorIs(t, err, domain.ErrNetworkNotConfigured)
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"broken", "development", "noport", "priced"}, resolver.Names())
	})
}

func TestNetworkResolverDetect(t *testing.T) {
	var calls int32
	server := newRPCServer(t, "0x539", "5777", &calls)
	defer server.Close()

	cfg := runtimeConfigFor(t, map[string]config.NetworkConfig{
		"development": {URL: server.URL, NetworkID: "5777"},
	})
	resolver := NewNetworkResolver(cfg)
	network, err := resolver.Resolve("development")
	require.NoError(t, err)

	info, err := resolver.Detect(context.Background(), network)
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), info.ChainID)
	assert.Equal(t, "5777", info.NetworkID)
	firstCalls := atomic.LoadInt32(&calls)
	assert.Equal(t, int32(2), firstCalls)

	// Cache was persisted
	_, err = os.Stat(filepath.Join(cfg.DataDir, "cache", "networks.json"))
	require.NoError(t, err)

	// A new resolver reads the cache instead of calling the node
	again, err := NewNetworkResolver(cfg).Detect(context.Background(), network)
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), again.ChainID)
	assert.Equal(t, firstCalls, atomic.LoadInt32(&calls))

	// Forget drops the entry
	resolver.Forget(network.RPCURL)
	_, err = resolver.Detect(context.Background(), network)
	require.NoError(t, err)
	assert.Equal(t, firstCalls+2, atomic.LoadInt32(&calls))
}

func TestNetworkResolverDetectUnreachable(t *testing.T) {
	cfg := runtimeConfigFor(t, map[string]config.NetworkConfig{
		"down": {URL: "http://127.0.0.1:1", NetworkID: "5777"},
	})
	resolver := NewNetworkResolver(cfg)
	network, err := resolver.Resolve("down")
	require.NoError(t, err)

	_, err = resolver.Detect(context.Background(), network)
	assert.Error(t, err)
}
