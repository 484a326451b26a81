// Package wallet bridges the application to whatever holds the user's key:
// a JSON-RPC wallet provider or a key kept on this machine.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Layr-Labs/disputectl/internal/chain"
)

var (
	ErrNotInstalled      = errors.New("no wallet provider available, configure one with `disputectl context set --wallet-type`")
	ErrNoAccountSelected = errors.New("please select an account in the wallet")
	ErrUserRejected      = errors.New("user rejected the request")
	ErrUnknown           = errors.New("unknown reason")
	ErrNotEnabled        = errors.New("wallet is not enabled")
)

type Wallet interface {
	// Enable performs the connection handshake and may prompt the user.
	Enable(ctx context.Context) error

	// CurrentAddress returns the selected account without doing any I/O.
	CurrentAddress() (common.Address, bool)

	// Submit hands the transaction to the wallet for signing and broadcast.
	Submit(ctx context.Context, tx chain.RawTransaction) (common.Hash, error)
}

func enableFailed(err error) error {
	return fmt.Errorf("could not enable wallet: %w", err)
}
