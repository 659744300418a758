package senders

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

const (
	TypePrivateKey = "private_key"
	TypeUnlocked   = "unlocked"
)

var accountRef = regexp.MustCompile(`^accounts\[(\d+)\]$`)

// AccountLister is the part of the chain client the resolver needs
type AccountLister interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// Resolver turns `from` references into senders
type Resolver struct {
	configs map[string]config.SenderConfig
	chain   AccountLister
}

// NewResolver creates a resolver over the [senders] section of sling.toml
func NewResolver(cfg *config.RuntimeConfig, chain AccountLister) *Resolver {
	configs := map[string]config.SenderConfig{}
	if cfg.Project != nil {
		configs = cfg.Project.Senders
	}
	return &Resolver{configs: configs, chain: chain}
}

// Resolve accepts "accounts[N]", a configured sender name or a literal address
func (r *Resolver) Resolve(ctx context.Context, from string) (*domain.Sender, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		from = usecase.DefaultSender
	}

	if m := accountRef.FindStringSubmatch(from); m != nil {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid account reference %s", from)
		}
		addr, err := r.account(ctx, index)
		if err != nil {
			return nil, err
		}
		return &domain.Sender{Name: from, Type: domain.SenderTypeUnlocked, Address: addr}, nil
	}

	if name, sc, ok := r.lookup(from); ok {
		return r.build(ctx, name, sc)
	}

	if common.IsHexAddress(from) {
		return &domain.Sender{Name: from, Type: domain.SenderTypeUnlocked, Address: common.HexToAddress(from)}, nil
	}

	return nil, fmt.Errorf("sender '%s' not found", from)
}

// lookup tries the exact name first, then a case-insensitive match
func (r *Resolver) lookup(name string) (string, config.SenderConfig, bool) {
	if sc, ok := r.configs[name]; ok {
		return name, sc, true
	}
	for key, sc := range r.configs {
		if strings.EqualFold(key, name) {
			return key, sc, true
		}
	}
	return "", config.SenderConfig{}, false
}

func (r *Resolver) build(ctx context.Context, name string, sc config.SenderConfig) (*domain.Sender, error) {
	switch sc.Type {
	case TypePrivateKey:
		if sc.PrivateKey == "" {
			return nil, fmt.Errorf("private key not configured for sender %s", name)
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(sc.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key for sender %s: %w", name, err)
		}
		return &domain.Sender{
			Name:    name,
			Type:    domain.SenderTypePrivateKey,
			Address: crypto.PubkeyToAddress(key.PublicKey),
			Key:     key,
		}, nil

	case TypeUnlocked:
		switch {
		case sc.Address != "":
			if !common.IsHexAddress(sc.Address) {
				return nil, fmt.Errorf("%w: sender %s address %s", domain.ErrInvalidAddress, name, sc.Address)
			}
			return &domain.Sender{Name: name, Type: domain.SenderTypeUnlocked, Address: common.HexToAddress(sc.Address)}, nil
		case sc.AccountIndex != nil:
			addr, err := r.account(ctx, *sc.AccountIndex)
			if err != nil {
				return nil, fmt.Errorf("sender %s: %w", name, err)
			}
			return &domain.Sender{Name: name, Type: domain.SenderTypeUnlocked, Address: addr}, nil
		}
		return nil, fmt.Errorf("unlocked sender %s needs an address or account_index", name)
	}

	return nil, fmt.Errorf("unsupported sender type: %s", sc.Type)
}

func (r *Resolver) account(ctx context.Context, index int) (common.Address, error) {
	accounts, err := r.chain.Accounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if index < 0 || index >= len(accounts) {
		return common.Address{}, fmt.Errorf("accounts[%d] out of range, node exposes %d accounts", index, len(accounts))
	}
	return accounts[index], nil
}

var _ usecase.SenderResolver = (*Resolver)(nil)
