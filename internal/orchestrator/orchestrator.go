// Package orchestrator runs wallet-backed operations one at a time and turns
// a contract call into a confirmed transaction.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/wallet"
)

var (
	ErrNoWalletSelected    = errors.New("no wallet selected")
	ErrOperationInProgress = errors.New("another operation is already in progress")
)

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action is the work done once the wallet is enabled.
type Action func(ctx context.Context, account common.Address) error

// ChainAccess is what SendAndWait needs from the node; *chain.Client satisfies it.
type ChainAccess interface {
	PrepareRawTransaction(ctx context.Context, from, to common.Address, data []byte) (chain.RawTransaction, error)
	AwaitConfirmation(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Outcome struct {
	OperationID string
	Name        string
	State       State
	Err         error
	Duration    time.Duration
}

type operation struct {
	id    string
	name  string
	start time.Time
}

type Orchestrator struct {
	wallet   wallet.Wallet
	chain    ChainAccess
	notifier Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	inflight  *operation
	last      State
	observers []func(State)
}

func New(w wallet.Wallet, c ChainAccess, notifier Notifier, logger *zap.Logger) (*Orchestrator, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("chain access cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger, nil)
	}
	return &Orchestrator{
		wallet:   w,
		chain:    c,
		notifier: notifier,
		logger:   logger,
		last:     Idle,
	}, nil
}

// OnStateChange registers a callback invoked synchronously on every transition.
func (o *Orchestrator) OnStateChange(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Busy reports whether an operation currently holds the slot.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inflight != nil
}

// State is Running while busy, otherwise the outcome of the last operation.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight != nil {
		return Running
	}
	return o.last
}

// Wallet exposes the bridge so callers can read the selected account.
func (o *Orchestrator) Wallet() wallet.Wallet {
	return o.wallet
}

// Run enables the wallet and hands the selected account to action. Failures
// are reported to the notifier and carried in the returned Outcome.
func (o *Orchestrator) Run(ctx context.Context, name string, action Action) (outcome Outcome) {
	op, ok := o.acquire(name)
	if !ok {
		err := fmt.Errorf("%s: %w", name, ErrOperationInProgress)
		o.logger.Sugar().Warnw("Rejected concurrent operation", "operation", name)
		return Outcome{Name: name, State: Failed, Err: err}
	}

	outcome = Outcome{OperationID: op.id, Name: name}
	defer func() {
		outcome.Duration = time.Since(op.start)
		o.release(op, outcome.State)
	}()

	err := o.execute(ctx, action)
	if err != nil {
		outcome.State = Failed
		outcome.Err = err
		o.logger.Error("Operation failed",
			zap.String("operation", name),
			zap.String("operationId", op.id),
			zap.Error(err),
		)
		o.notifier.Notify(ctx, name, err)
		return outcome
	}

	outcome.State = Succeeded
	o.logger.Debug("Operation succeeded",
		zap.String("operation", name),
		zap.String("operationId", op.id),
	)
	return outcome
}

func (o *Orchestrator) execute(ctx context.Context, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()

	if err := o.wallet.Enable(ctx); err != nil {
		return err
	}

	account, ok := o.wallet.CurrentAddress()
	if !ok || account == (common.Address{}) {
		return ErrNoWalletSelected
	}

	return action(ctx, account)
}

func (o *Orchestrator) acquire(name string) (*operation, bool) {
	o.mu.Lock()
	if o.inflight != nil {
		o.mu.Unlock()
		return nil, false
	}
	op := &operation{
		id:    uuid.New().String(),
		name:  name,
		start: time.Now(),
	}
	o.inflight = op
	observers := append([]func(State){}, o.observers...)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(Running)
	}
	return op, true
}

func (o *Orchestrator) release(op *operation, final State) {
	o.mu.Lock()
	if o.inflight == op {
		o.inflight = nil
	}
	o.last = final
	observers := append([]func(State){}, o.observers...)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(final)
	}
}

// SendAndWait prepares, submits and confirms a contract call from account.
func (o *Orchestrator) SendAndWait(ctx context.Context, from common.Address, tx claims.Tx) (*types.Receipt, error) {
	raw, err := o.chain.PrepareRawTransaction(ctx, from, tx.To, tx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s transaction: %w", tx.Method, err)
	}

	hash, err := o.wallet.Submit(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s transaction: %w", tx.Method, err)
	}

	o.logger.Info("Waiting for transaction to be mined",
		zap.String("method", tx.Method),
		zap.String("txHash", hash.Hex()),
	)

	receipt, err := o.chain.AwaitConfirmation(ctx, hash)
	if err != nil {
		return receipt, fmt.Errorf("%s transaction %s: %w", tx.Method, hash.Hex(), err)
	}
	return receipt, nil
}
