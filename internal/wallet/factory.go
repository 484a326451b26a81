package wallet

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/config"
)

type Deps struct {
	Sender   TxSender
	Approve  ApproveFunc
	Password PasswordFunc
	Getenv   func(string) string
	Logger   *zap.Logger
}

// FromConfig builds the wallet named by the context's wallet section.
func FromConfig(cfg *config.WalletConfig, deps Deps) (Wallet, error) {
	if cfg == nil {
		return nil, ErrNotInstalled
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	getenv := deps.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	switch cfg.Type {
	case config.WalletTypeProvider:
		return NewProviderWallet(&ProviderConfig{
			URL:     cfg.ProviderURL,
			Account: cfg.Account,
			Timeout: DefaultProviderConfig().Timeout,
		}, deps.Logger)

	case config.WalletTypeKeystore:
		password := deps.Password
		if pw := getenv(config.KeystorePassword); pw != "" {
			password = func(string) (string, error) { return pw, nil }
		}
		return NewLocalWallet(KeystoreLoader(cfg.KeystorePath, password), deps.Approve, deps.Sender, deps.Logger)

	case config.WalletTypePrivateKey:
		return NewLocalWallet(PrivateKeyLoader(getenv(config.PrivateKeyEnv)), deps.Approve, deps.Sender, deps.Logger)

	default:
		return nil, fmt.Errorf("unsupported wallet type: %q", cfg.Type)
	}
}
