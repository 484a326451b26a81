package walletmock

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/wallet"
)

// MockWallet is an in-process wallet.Wallet. EnableErr fails Enable; an empty
// Account leaves no selected address after a successful Enable.
type MockWallet struct {
	mu         sync.Mutex
	Account    common.Address
	EnableErr  error
	SubmitFunc func(ctx context.Context, tx chain.RawTransaction) (common.Hash, error)

	enabled     bool
	enableCalls int
	submitted   []chain.RawTransaction
}

var _ wallet.Wallet = (*MockWallet)(nil)

func (w *MockWallet) Enable(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enableCalls++
	if w.EnableErr != nil {
		return w.EnableErr
	}
	w.enabled = true
	return nil
}

func (w *MockWallet) CurrentAddress() (common.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Account == (common.Address{}) {
		return common.Address{}, false
	}
	return w.Account, true
}

// Select switches the active account, like picking another one in the wallet UI.
func (w *MockWallet) Select(account common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Account = account
}

func (w *MockWallet) Submit(ctx context.Context, tx chain.RawTransaction) (common.Hash, error) {
	w.mu.Lock()
	if !w.enabled {
		w.mu.Unlock()
		return common.Hash{}, wallet.ErrNotEnabled
	}
	w.submitted = append(w.submitted, tx)
	n := len(w.submitted)
	fn := w.SubmitFunc
	w.mu.Unlock()

	if fn != nil {
		return fn(ctx, tx)
	}
	return common.BigToHash(big.NewInt(int64(n))), nil
}

func (w *MockWallet) EnableCalls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enableCalls
}

func (w *MockWallet) Submitted() []chain.RawTransaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]chain.RawTransaction(nil), w.submitted...)
}
