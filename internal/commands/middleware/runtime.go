package middleware

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/app"
	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/orchestrator"
	"github.com/Layr-Labs/disputectl/internal/output"
	"github.com/Layr-Labs/disputectl/internal/storage"
	"github.com/Layr-Labs/disputectl/internal/storage/badger"
	"github.com/Layr-Labs/disputectl/internal/storage/memory"
	"github.com/Layr-Labs/disputectl/internal/wallet"
)

// Runtime is everything a chain-touching command needs.
type Runtime struct {
	Controller    *app.Controller
	Wallet        wallet.Wallet
	ClaimsHandler common.Address
	Token         common.Address

	closers []func() error
}

// NewRuntime assembles a runtime from already built parts; used by tests.
func NewRuntime(ctrl *app.Controller, w wallet.Wallet, handler, token common.Address, closers ...func() error) *Runtime {
	return &Runtime{Controller: ctrl, Wallet: w, ClaimsHandler: handler, Token: token, closers: closers}
}

func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// RuntimeFromContext returns the runtime built by RuntimeBeforeFunc.
func RuntimeFromContext(c *cli.Context) (*Runtime, error) {
	rt, ok := c.Context.Value(config.ControllerKey).(*Runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("command is not connected to a chain")
	}
	return rt, nil
}

// RuntimeBeforeFunc dials the node and builds the wallet, claims client,
// claim store, orchestrator and controller for the current context. A runtime
// already present in the context is kept.
func RuntimeBeforeFunc(c *cli.Context) error {
	if _, ok := c.Context.Value(config.ControllerKey).(*Runtime); ok {
		return nil
	}
	if err := RequireContext(c); err != nil {
		return err
	}
	currentCtx, _ := CurrentContext(c)
	if err := currentCtx.Validate(); err != nil {
		return err
	}

	log := GetLogger(c)
	zl := log.Zap()

	handler, err := parseAddress("claims handler", currentCtx.ClaimsHandlerAddress)
	if err != nil {
		return err
	}
	token, err := parseAddress("token", currentCtx.TokenAddress)
	if err != nil {
		return err
	}

	log.Debug("Connecting to node", zap.String("rpcUrl", currentCtx.RPCEndpoint()))
	chainClient, err := chain.Dial(c.Context, &chain.Config{
		RPCUrl: currentCtx.RPCEndpoint(),
		Policy: confirmationPolicy(currentCtx.Confirmation),
	}, zl)
	if err != nil {
		return err
	}
	rt := &Runtime{ClaimsHandler: handler, Token: token}
	rt.closers = append(rt.closers, func() error {
		chainClient.Close()
		return nil
	})

	if err := buildRuntime(c, rt, currentCtx, chainClient, zl); err != nil {
		_ = rt.Close()
		return err
	}

	c.Context = context.WithValue(c.Context, config.ControllerKey, rt)
	return nil
}

func buildRuntime(c *cli.Context, rt *Runtime, currentCtx *config.Context, chainClient *chain.Client, zl *zap.Logger) error {
	if currentCtx.ChainID != 0 {
		id, err := chainClient.ChainID(c.Context)
		if err != nil {
			return err
		}
		if id.Uint64() != currentCtx.ChainID {
			return fmt.Errorf("node is on chain %s but context %q expects chain %d", id, currentCtx.Name, currentCtx.ChainID)
		}
	}

	w, err := wallet.FromConfig(currentCtx.Wallet, wallet.Deps{
		Sender:   chainClient,
		Approve:  approveAccount(c.Bool("yes")),
		Password: promptPassword,
		Logger:   zl,
	})
	if err != nil {
		return err
	}
	rt.Wallet = w

	manager, err := claims.NewManager(&claims.Config{
		ClaimsHandlerAddress: rt.ClaimsHandler,
		TokenAddress:         rt.Token,
	}, chainClient, zl)
	if err != nil {
		return err
	}

	store, err := openStore(c.Bool("ephemeral"), currentCtx.StoreDir(), zl)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, store.Close)

	orch, err := orchestrator.New(w, chainClient, orchestrator.NewLogNotifier(zl, c.App.ErrWriter), zl)
	if err != nil {
		return err
	}

	ctrl, err := app.NewController(manager, orch, store, zl)
	if err != nil {
		return err
	}
	rt.Controller = ctrl
	return nil
}

// RuntimeAfterFunc releases the claim store and the node connection.
func RuntimeAfterFunc(c *cli.Context) error {
	rt, ok := c.Context.Value(config.ControllerKey).(*Runtime)
	if !ok || rt == nil {
		return nil
	}
	return rt.Close()
}

func openStore(ephemeral bool, dir string, zl *zap.Logger) (storage.ClaimStore, error) {
	if ephemeral {
		return memory.NewInMemoryClaimStore(), nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return badger.NewBadgerClaimStore(&badger.Config{Dir: dir, Logger: zl})
}

func confirmationPolicy(cfg *config.ConfirmationConfig) *chain.ConfirmationPolicy {
	policy := chain.DefaultConfirmationPolicy()
	if cfg == nil {
		return policy
	}
	if cfg.PollInterval > 0 {
		policy.PollInterval = cfg.PollInterval
	}
	policy.Timeout = cfg.Timeout
	policy.MaxAttempts = cfg.MaxAttempts
	return policy
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %q", name, value)
	}
	return common.HexToAddress(value), nil
}

func approveAccount(assumeYes bool) wallet.ApproveFunc {
	return func(account common.Address) (bool, error) {
		if assumeYes {
			return true, nil
		}
		if !output.Interactive() {
			return false, fmt.Errorf("cannot confirm account %s without a terminal, pass --yes", account.Hex())
		}
		return output.Confirm(fmt.Sprintf("Sign transactions with account %s?", account.Hex()))
	}
}

func promptPassword(path string) (string, error) {
	if !output.Interactive() {
		return "", fmt.Errorf("keystore password required, set %s", config.KeystorePassword)
	}
	return output.InputHiddenString("Keystore password", "Password used to encrypt "+path, nil)
}
