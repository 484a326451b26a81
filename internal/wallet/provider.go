package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/chain"
)

type ProviderConfig struct {
	URL string
	// Account picks one of the provider's accounts; empty selects the first.
	Account string
	Timeout time.Duration
}

func DefaultProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		URL:     "http://localhost:8545",
		Timeout: 2 * time.Minute,
	}
}

// ProviderWallet talks to an EIP-1193 style JSON-RPC wallet.
type ProviderWallet struct {
	logger     *zap.Logger
	httpClient *http.Client
	config     *ProviderConfig
	requestID  int64

	mu       sync.RWMutex
	selected common.Address
	enabled  bool
}

func NewProviderWallet(cfg *ProviderConfig, logger *zap.Logger) (*ProviderWallet, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultProviderConfig().Timeout
	}
	return &ProviderWallet{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}, nil
}

// SetHttpClient replaces the HTTP client, mostly for tests.
func (p *ProviderWallet) SetHttpClient(client *http.Client) {
	p.httpClient = client
}

func (p *ProviderWallet) Enable(ctx context.Context) error {
	if p.config.URL == "" {
		return ErrNotInstalled
	}

	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		var te *transportError
		if errors.As(err, &te) {
			return fmt.Errorf("%w: %v", ErrNotInstalled, err)
		}
		return enableFailed(err)
	}

	selected, err := p.selectAccount(accounts)
	if err != nil {
		return err
	}

	var granted []string
	err = p.call(ctx, "eth_requestAccounts", nil, &granted)
	if err != nil {
		var pe *ProviderError
		switch {
		case errors.As(err, &pe) && pe.Code == codeUserRejected:
			return enableFailed(fmt.Errorf("%w: %s", ErrUserRejected, pe.Message))
		case errors.As(err, &pe) && pe.Code == codeMethodNotFound:
			// providers without the handshake expose their accounts directly
			granted = accounts
		default:
			return enableFailed(err)
		}
	}
	if len(granted) == 0 || granted[0] == "" {
		return enableFailed(ErrUnknown)
	}

	p.mu.Lock()
	p.selected = selected
	p.enabled = true
	p.mu.Unlock()

	p.logger.Sugar().Infow("Wallet provider enabled",
		"url", p.config.URL,
		"account", selected.Hex(),
	)
	return nil
}

func (p *ProviderWallet) selectAccount(accounts []string) (common.Address, error) {
	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccountSelected
	}
	if p.config.Account == "" {
		if !common.IsHexAddress(accounts[0]) {
			return common.Address{}, ErrNoAccountSelected
		}
		return common.HexToAddress(accounts[0]), nil
	}
	for _, account := range accounts {
		if strings.EqualFold(account, p.config.Account) {
			return common.HexToAddress(account), nil
		}
	}
	return common.Address{}, fmt.Errorf("%w: account %s is not exposed by the provider", ErrNoAccountSelected, p.config.Account)
}

func (p *ProviderWallet) CurrentAddress() (common.Address, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selected == (common.Address{}) {
		return common.Address{}, false
	}
	return p.selected, true
}

func (p *ProviderWallet) Submit(ctx context.Context, tx chain.RawTransaction) (common.Hash, error) {
	p.mu.RLock()
	enabled, from := p.enabled, p.selected
	p.mu.RUnlock()
	if !enabled {
		return common.Hash{}, ErrNotEnabled
	}

	args := tx.CallArgs()
	args["from"] = from.Hex()

	var hash string
	if err := p.call(ctx, "eth_sendTransaction", []interface{}{args}, &hash); err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && pe.Code == codeUserRejected {
			return common.Hash{}, fmt.Errorf("%w: %s", ErrUserRejected, pe.Message)
		}
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	if hash == "" {
		return common.Hash{}, fmt.Errorf("wallet provider returned an empty transaction hash")
	}

	p.logger.Sugar().Infow("Transaction submitted",
		"from", from.Hex(),
		"to", tx.To.Hex(),
		"txHash", hash,
	)
	return common.HexToHash(hash), nil
}
