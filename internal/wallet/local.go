package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/chain"
)

// TxSender broadcasts signed transactions; *chain.Client satisfies it.
type TxSender interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, tx *types.Transaction) error
}

// KeyLoader produces the signing key when the wallet is enabled.
type KeyLoader func() (*ecdsa.PrivateKey, error)

// ApproveFunc asks the user whether the account may be connected.
type ApproveFunc func(account common.Address) (bool, error)

// PasswordFunc supplies the keystore password.
type PasswordFunc func(path string) (string, error)

// LocalWallet signs with a key held on this machine.
type LocalWallet struct {
	load    KeyLoader
	approve ApproveFunc
	sender  TxSender
	logger  *zap.Logger

	// enableMu serializes Enable so the user is prompted at most once.
	enableMu sync.Mutex

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address common.Address
	enabled bool
}

func NewLocalWallet(load KeyLoader, approve ApproveFunc, sender TxSender, logger *zap.Logger) (*LocalWallet, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &LocalWallet{
		load:    load,
		approve: approve,
		sender:  sender,
		logger:  logger,
	}, nil
}

// Enable loads the key and asks for approval on the first call. Later calls
// reuse the approved session.
func (w *LocalWallet) Enable(ctx context.Context) error {
	if w.load == nil {
		return ErrNotInstalled
	}

	w.enableMu.Lock()
	defer w.enableMu.Unlock()
	if _, ok := w.CurrentAddress(); ok {
		return nil
	}

	key, err := w.load()
	if err != nil {
		return err
	}
	address := crypto.PubkeyToAddress(key.PublicKey)

	if w.approve != nil {
		ok, err := w.approve(address)
		if err != nil {
			return enableFailed(err)
		}
		if !ok {
			return enableFailed(ErrUserRejected)
		}
	}

	w.mu.Lock()
	w.key = key
	w.address = address
	w.enabled = true
	w.mu.Unlock()

	w.logger.Sugar().Infow("Local wallet enabled", "account", address.Hex())
	return nil
}

func (w *LocalWallet) CurrentAddress() (common.Address, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.enabled {
		return common.Address{}, false
	}
	return w.address, true
}

func (w *LocalWallet) Submit(ctx context.Context, tx chain.RawTransaction) (common.Hash, error) {
	w.mu.RLock()
	enabled, key, address := w.enabled, w.key, w.address
	w.mu.RUnlock()
	if !enabled {
		return common.Hash{}, ErrNotEnabled
	}
	if tx.From != address {
		return common.Hash{}, fmt.Errorf("transaction sender %s does not match wallet account %s", tx.From.Hex(), address.Hex())
	}

	chainID, err := w.sender.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain id: %w", err)
	}

	signed, err := types.SignTx(tx.Transaction(), types.NewEIP155Signer(chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := w.sender.SendRawTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	w.logger.Sugar().Infow("Transaction submitted",
		"from", address.Hex(),
		"to", tx.To.Hex(),
		"nonce", tx.Nonce,
		"txHash", signed.Hash().Hex(),
	)
	return signed.Hash(), nil
}

// PrivateKeyLoader reads a hex encoded key. An empty key means no account.
func PrivateKeyLoader(hexKey string) KeyLoader {
	return func() (*ecdsa.PrivateKey, error) {
		hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
		if hexKey == "" {
			return nil, ErrNoAccountSelected
		}
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, enableFailed(fmt.Errorf("invalid private key: %w", err))
		}
		return key, nil
	}
}

// KeystoreLoader decrypts a geth v3 keystore file.
func KeystoreLoader(path string, password PasswordFunc) KeyLoader {
	return func() (*ecdsa.PrivateKey, error) {
		if path == "" {
			return nil, ErrNotInstalled
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: keystore %s does not exist", ErrNotInstalled, path)
			}
			return nil, enableFailed(fmt.Errorf("failed to read keystore: %w", err))
		}
		if password == nil {
			return nil, enableFailed(fmt.Errorf("no keystore password available"))
		}
		pw, err := password(path)
		if err != nil {
			return nil, enableFailed(fmt.Errorf("failed to get keystore password: %w", err))
		}
		key, err := gethkeystore.DecryptKey(data, pw)
		if err != nil {
			return nil, enableFailed(fmt.Errorf("failed to decrypt keystore: %w", err))
		}
		if key.PrivateKey == nil {
			return nil, ErrNoAccountSelected
		}
		return key.PrivateKey, nil
	}
}
