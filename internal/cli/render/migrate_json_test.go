package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

const anvilKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestMigrateRendererJSON(t *testing.T) {
	key, err := crypto.HexToECDSA(anvilKey)
	require.NoError(t, err)
	sender := &domain.Sender{
		Name:    "deployer",
		Type:    domain.SenderTypePrivateKey,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Key:     key,
	}

	result := &usecase.RunMigrationsResult{
		Network: development,
		Chain:   chain,
		DryRun:  true,
		Steps: []*usecase.MigrationStepResult{
			{
				Step:   &usecase.ExecutionStep{Migration: &domain.Migration{Number: 2, Name: "role_management", Contract: "RoleManagement"}},
				Status: domain.MigrationDryRun,
				Sender: sender,
			},
			{
				Step:    &usecase.ExecutionStep{Migration: &domain.Migration{Number: 5, Contract: "WarehouseInventoryManagement"}},
				Status:  domain.MigrationSkipped,
				Missing: []error{fmt.Errorf("%w: ItemsManagement", domain.ErrNotDeployed)},
			},
		},
		Skipped:      1,
		SkippedNames: []string{"5_WarehouseInventoryManagement"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewMigrateRenderer(&buf).RenderJSON(result))
	out := buf.String()

	t.Run("key material is never written", func(t *testing.T) {
		assert.NotContains(t, strings.ToLower(out), anvilKey)
		assert.NotContains(t, out, key.D.String())
		assert.NotContains(t, out, `"D"`)
	})

	t.Run("steps carry sender and missing prerequisites", func(t *testing.T) {
		var decoded struct {
			DryRun bool `json:"dryRun"`
			Steps  []struct {
				Number  int      `json:"number"`
				Name    string   `json:"name"`
				Status  string   `json:"status"`
				Missing []string `json:"missing"`
				Sender  *struct {
					Name    string `json:"name"`
					Type    string `json:"type"`
					Address string `json:"address"`
				} `json:"sender"`
			} `json:"steps"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

		assert.True(t, decoded.DryRun)
		require.Len(t, decoded.Steps, 2)
		assert.Equal(t, "2_role_management", decoded.Steps[0].Name)
		require.NotNil(t, decoded.Steps[0].Sender)
		assert.Equal(t, "deployer", decoded.Steps[0].Sender.Name)
		assert.Equal(t, "private_key", decoded.Steps[0].Sender.Type)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", decoded.Steps[0].Sender.Address)

		assert.Equal(t, "skipped", decoded.Steps[1].Status)
		require.Len(t, decoded.Steps[1].Missing, 1)
		assert.Contains(t, decoded.Steps[1].Missing[0], "ItemsManagement")
	})

	t.Run("sender struct alone hides the key", func(t *testing.T) {
		var raw bytes.Buffer
		require.NoError(t, JSON(&raw, sender))
		assert.NotContains(t, raw.String(), key.D.String())
		assert.NotContains(t, raw.String(), "Key")
	})
}
