package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/testutils/ethmock"
	"github.com/Layr-Labs/disputectl/internal/testutils/walletmock"
	"github.com/Layr-Labs/disputectl/internal/wallet"
)

var (
	account  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	contract = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []error
}

func (n *recordingNotifier) Notify(_ context.Context, _ string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, err)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newChain(t *testing.T, eth *ethmock.MockEthClient) *chain.Client {
	t.Helper()
	c, err := chain.NewClient(eth, &chain.ConfirmationPolicy{PollInterval: time.Millisecond}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func newOrchestrator(t *testing.T, w wallet.Wallet, eth *ethmock.MockEthClient, n Notifier) *Orchestrator {
	t.Helper()
	if eth == nil {
		eth = &ethmock.MockEthClient{}
	}
	o, err := New(w, newChain(t, eth), n, zaptest.NewLogger(t))
	require.NoError(t, err)
	return o
}

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)
	c := newChain(t, &ethmock.MockEthClient{})

	_, err := New(nil, c, nil, logger)
	assert.EqualError(t, err, "wallet cannot be nil")

	_, err = New(&walletmock.MockWallet{}, nil, nil, logger)
	assert.EqualError(t, err, "chain access cannot be nil")

	_, err = New(&walletmock.MockWallet{}, c, nil, nil)
	assert.EqualError(t, err, "logger cannot be nil")
}

func TestRun_Success(t *testing.T) {
	w := &walletmock.MockWallet{Account: account}
	n := &recordingNotifier{}
	o := newOrchestrator(t, w, nil, n)

	var transitions []State
	o.OnStateChange(func(s State) { transitions = append(transitions, s) })

	assert.False(t, o.Busy())
	assert.Equal(t, Idle, o.State())

	var seen common.Address
	var busyInside bool
	outcome := o.Run(context.Background(), "refresh allowance", func(ctx context.Context, acct common.Address) error {
		seen = acct
		busyInside = o.Busy()
		assert.Equal(t, Running, o.State())
		return nil
	})

	require.NoError(t, outcome.Err)
	assert.Equal(t, Succeeded, outcome.State)
	assert.NotEmpty(t, outcome.OperationID)
	assert.Equal(t, account, seen)
	assert.True(t, busyInside)
	assert.False(t, o.Busy())
	assert.Equal(t, Succeeded, o.State())
	assert.Equal(t, []State{Running, Succeeded}, transitions)
	assert.Zero(t, n.count())
}

func TestRun_WalletFailures(t *testing.T) {
	cases := []struct {
		name      string
		wallet    *walletmock.MockWallet
		expectErr error
	}{
		{"not installed", &walletmock.MockWallet{Account: account, EnableErr: wallet.ErrNotInstalled}, wallet.ErrNotInstalled},
		{"no account selected", &walletmock.MockWallet{EnableErr: wallet.ErrNoAccountSelected}, wallet.ErrNoAccountSelected},
		{"user rejected", &walletmock.MockWallet{Account: account, EnableErr: fmt.Errorf("could not enable wallet: %w", wallet.ErrUserRejected)}, wallet.ErrUserRejected},
		{"unknown", &walletmock.MockWallet{Account: account, EnableErr: fmt.Errorf("could not enable wallet: %w", wallet.ErrUnknown)}, wallet.ErrUnknown},
		{"no wallet selected", &walletmock.MockWallet{}, ErrNoWalletSelected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &recordingNotifier{}
			o := newOrchestrator(t, tc.wallet, nil, n)

			called := false
			outcome := o.Run(context.Background(), "create claim", func(ctx context.Context, acct common.Address) error {
				called = true
				_, err := o.SendAndWait(ctx, acct, claims.Tx{Method: "create", To: contract})
				return err
			})

			assert.ErrorIs(t, outcome.Err, tc.expectErr)
			assert.Equal(t, Failed, outcome.State)
			assert.False(t, called)
			assert.False(t, o.Busy())
			assert.Equal(t, 1, n.count())
			assert.Empty(t, tc.wallet.Submitted())
		})
	}
}

func TestRun_ActionFailureIsReportedNotReturned(t *testing.T) {
	n := &recordingNotifier{}
	o := newOrchestrator(t, &walletmock.MockWallet{Account: account}, nil, n)

	boom := errors.New("please select requester's wallet")
	outcome := o.Run(context.Background(), "close claim", func(ctx context.Context, acct common.Address) error {
		return boom
	})

	assert.ErrorIs(t, outcome.Err, boom)
	assert.Equal(t, Failed, o.State())
	assert.False(t, o.Busy())
	require.Equal(t, 1, n.count())
	assert.ErrorIs(t, n.calls[0], boom)
}

func TestRun_PanicClearsBusy(t *testing.T) {
	o := newOrchestrator(t, &walletmock.MockWallet{Account: account}, nil, &recordingNotifier{})

	outcome := o.Run(context.Background(), "resolve claim", func(ctx context.Context, acct common.Address) error {
		panic("nil claim")
	})

	assert.ErrorContains(t, outcome.Err, "nil claim")
	assert.False(t, o.Busy())
}

func TestRun_SingleSlot(t *testing.T) {
	w := &walletmock.MockWallet{Account: account}
	o := newOrchestrator(t, w, nil, &recordingNotifier{})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan Outcome)

	go func() {
		done <- o.Run(context.Background(), "approve allowance", func(ctx context.Context, acct common.Address) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.True(t, o.Busy())

	second := o.Run(context.Background(), "clear allowance", func(ctx context.Context, acct common.Address) error {
		t.Fatal("second operation must not run")
		return nil
	})
	assert.ErrorIs(t, second.Err, ErrOperationInProgress)
	assert.Equal(t, 1, w.EnableCalls())

	close(release)
	first := <-done
	require.NoError(t, first.Err)
	assert.False(t, o.Busy())

	for i := 0; i < 3; i++ {
		again := o.Run(context.Background(), "refresh allowance", func(ctx context.Context, acct common.Address) error {
			return nil
		})
		require.NoError(t, again.Err)
		assert.False(t, o.Busy())
	}
}

func TestSendAndWait(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		eth := &ethmock.MockEthClient{
			TransactionReceiptFunc: func(ctx context.Context, h common.Hash) (*types.Receipt, error) {
				return ethmock.SuccessReceipt(h), nil
			},
		}
		w := &walletmock.MockWallet{Account: account}
		o := newOrchestrator(t, w, eth, &recordingNotifier{})

		var receipt *types.Receipt
		outcome := o.Run(context.Background(), "accept claim", func(ctx context.Context, acct common.Address) error {
			var err error
			receipt, err = o.SendAndWait(ctx, acct, claims.Tx{Method: "accept", To: contract, Data: []byte{0x01}})
			return err
		})

		require.NoError(t, outcome.Err)
		require.NotNil(t, receipt)
		submitted := w.Submitted()
		require.Len(t, submitted, 1)
		assert.Equal(t, account, submitted[0].From)
		assert.Equal(t, contract, submitted[0].To)
		assert.Equal(t, []byte{0x01}, submitted[0].Data)
	})

	t.Run("reverted", func(t *testing.T) {
		eth := &ethmock.MockEthClient{
			TransactionReceiptFunc: func(ctx context.Context, h common.Hash) (*types.Receipt, error) {
				return ethmock.FailedReceipt(h), nil
			},
		}
		n := &recordingNotifier{}
		o := newOrchestrator(t, &walletmock.MockWallet{Account: account}, eth, n)

		outcome := o.Run(context.Background(), "accept claim", func(ctx context.Context, acct common.Address) error {
			_, err := o.SendAndWait(ctx, acct, claims.Tx{Method: "accept", To: contract})
			return err
		})

		assert.ErrorIs(t, outcome.Err, chain.ErrTransactionFailed)
		assert.Equal(t, 1, n.count())
		assert.False(t, o.Busy())
	})

	t.Run("wallet not enabled", func(t *testing.T) {
		o := newOrchestrator(t, &walletmock.MockWallet{Account: account}, nil, &recordingNotifier{})

		_, err := o.SendAndWait(context.Background(), account, claims.Tx{Method: "close", To: contract})
		assert.ErrorIs(t, err, wallet.ErrNotEnabled)
	})
}
