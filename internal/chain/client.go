package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const DefaultPollInterval = 1 * time.Second

// EthClient is the subset of *ethclient.Client used here.
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// ConfirmationPolicy bounds AwaitConfirmation. Zero Timeout and MaxAttempts
// mean poll until the receipt shows up or the context ends.
type ConfirmationPolicy struct {
	PollInterval time.Duration
	Timeout      time.Duration
	MaxAttempts  int
}

func DefaultConfirmationPolicy() *ConfirmationPolicy {
	return &ConfirmationPolicy{
		PollInterval: DefaultPollInterval,
	}
}

type Config struct {
	RPCUrl string
	Policy *ConfirmationPolicy
}

type Client struct {
	eth    EthClient
	policy ConfirmationPolicy
	logger *zap.Logger
}

func NewClient(eth EthClient, policy *ConfirmationPolicy, logger *zap.Logger) (*Client, error) {
	if eth == nil {
		return nil, fmt.Errorf("eth client cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if policy == nil {
		policy = DefaultConfirmationPolicy()
	}
	p := *policy
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	return &Client{
		eth:    eth,
		policy: p,
		logger: logger,
	}, nil
}

// Dial connects to the node and checks it answers before handing out a client.
func Dial(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}
	if _, err := eth.ChainID(ctx); err != nil {
		eth.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}

	return NewClient(eth, cfg.Policy, logger)
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) Policy() ConfirmationPolicy {
	return c.policy
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, networkError("eth_chainId", err)
	}
	return id, nil
}

func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, networkError("eth_gasPrice", err)
	}
	return price, nil
}

func (c *Client) Nonce(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, networkError("eth_getTransactionCount", err)
	}
	return nonce, nil
}

func (c *Client) EstimateGas(ctx context.Context, data []byte, from, to common.Address) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: big.NewInt(0),
		Data:  data,
	})
	if err != nil {
		return 0, networkError("eth_estimateGas", err)
	}
	return gas, nil
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, networkError("eth_call", err)
	}
	return out, nil
}

func (c *Client) SendRawTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return networkError("eth_sendRawTransaction", err)
	}
	return nil
}

// Receipt polls once. A receipt the node does not know yet yields nil, nil.
func (c *Client) Receipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, networkError("eth_getTransactionReceipt", err)
	}
	return receipt, nil
}

// PrepareRawTransaction resolves nonce, gas price and gas limit for a zero-value call.
func (c *Client) PrepareRawTransaction(ctx context.Context, from, to common.Address, data []byte) (RawTransaction, error) {
	nonce, err := c.Nonce(ctx, from)
	if err != nil {
		return RawTransaction{}, err
	}

	gasPrice, err := c.GasPrice(ctx)
	if err != nil {
		return RawTransaction{}, err
	}

	gasLimit, err := c.EstimateGas(ctx, data, from, to)
	if err != nil {
		return RawTransaction{}, err
	}

	c.logger.Sugar().Debugw("Prepared raw transaction",
		"from", from.Hex(),
		"to", to.Hex(),
		"nonce", nonce,
		"gasPrice", gasPrice.String(),
		"gasLimit", gasLimit,
	)

	return NewRawTransaction(from, to, nonce, gasPrice, gasLimit, data), nil
}

// AwaitConfirmation polls for the receipt until it is present. A receipt with
// failure status yields ErrTransactionFailed alongside the receipt.
func (c *Client) AwaitConfirmation(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.policy.PollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		attempts++
		receipt, err := c.Receipt(ctx, txHash)
		if err != nil {
			if ctxErr := c.confirmationContextErr(ctx); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}

		if receipt != nil {
			if !ReceiptSucceeded(receipt) {
				c.logger.Sugar().Errorw("Transaction failed",
					"txHash", txHash.Hex(),
					"blockNumber", receipt.BlockNumber,
				)
				return receipt, fmt.Errorf("%w: %s", ErrTransactionFailed, txHash.Hex())
			}
			c.logger.Sugar().Infow("Transaction confirmed",
				"txHash", txHash.Hex(),
				"blockNumber", receipt.BlockNumber,
				"gasUsed", receipt.GasUsed,
				"attempts", attempts,
			)
			return receipt, nil
		}

		if c.policy.MaxAttempts > 0 && attempts >= c.policy.MaxAttempts {
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrConfirmationTimeout, txHash.Hex(), attempts)
		}

		c.logger.Sugar().Debugw("Receipt not available yet", "txHash", txHash.Hex(), "attempt", attempts)

		select {
		case <-ctx.Done():
			return nil, c.confirmationContextErr(ctx)
		case <-ticker.C:
		}
	}
}

func (c *Client) confirmationContextErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && c.policy.Timeout > 0 {
		return fmt.Errorf("%w: gave up after %s", ErrConfirmationTimeout, c.policy.Timeout)
	}
	return err
}
