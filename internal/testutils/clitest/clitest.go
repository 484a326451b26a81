// Package clitest runs command trees against an in-process runtime: a mock
// wallet, a mock node that mines every transaction and an in-memory claim
// store.
package clitest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/disputectl/internal/app"
	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/orchestrator"
	"github.com/Layr-Labs/disputectl/internal/storage"
	"github.com/Layr-Labs/disputectl/internal/storage/memory"
	"github.com/Layr-Labs/disputectl/internal/testutils/claimsmock"
	"github.com/Layr-Labs/disputectl/internal/testutils/ethmock"
	"github.com/Layr-Labs/disputectl/internal/testutils/walletmock"
)

var (
	Handler    = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	Token      = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	Requester  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	Respondent = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

type Env struct {
	Claims  *claimsmock.MockClaims
	Wallet  *walletmock.MockWallet
	Store   storage.ClaimStore
	Runtime *middleware.Runtime
}

// NewEnv builds a runtime whose wallet has Requester selected.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	logger := zaptest.NewLogger(t)

	eth := &ethmock.MockEthClient{
		TransactionReceiptFunc: func(ctx context.Context, h common.Hash) (*types.Receipt, error) {
			return ethmock.SuccessReceipt(h), nil
		},
	}
	chainClient, err := chain.NewClient(eth, &chain.ConfirmationPolicy{PollInterval: time.Millisecond}, logger)
	require.NoError(t, err)

	w := &walletmock.MockWallet{Account: Requester}
	runner, err := orchestrator.New(w, chainClient, orchestrator.NotifierFunc(func(context.Context, string, error) {}), logger)
	require.NoError(t, err)

	mc := claimsmock.New(Handler, Token, Requester)
	store := memory.NewInMemoryClaimStore()
	t.Cleanup(func() { _ = store.Close() })
	ctrl, err := app.NewController(mc, runner, store, logger)
	require.NoError(t, err)

	return &Env{
		Claims:  mc,
		Wallet:  w,
		Store:   store,
		Runtime: middleware.NewRuntime(ctrl, w, Handler, Token),
	}
}

// Run executes cmd with args and returns what it wrote to stdout.
func (e *Env) Run(t *testing.T, cmd *cli.Command, args ...string) (string, error) {
	t.Helper()
	return e.RunWithOutput(t, "table", cmd, args...)
}

// RunWithOutput is Run with the given --output format.
func (e *Env) RunWithOutput(t *testing.T, format string, cmd *cli.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &cli.App{
		Name:      "disputectl",
		Writer:    &out,
		ErrWriter: &errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: format},
		},
		Commands: []*cli.Command{cmd},
	}

	ctx := context.WithValue(context.Background(), config.ControllerKey, e.Runtime)
	err := a.RunContext(ctx, append([]string{"disputectl", cmd.Name}, args...))
	return out.String(), err
}
