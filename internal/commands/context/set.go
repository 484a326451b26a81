package context

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func setCommand() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Set context properties",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rpc-url",
				Usage: "Set the Ethereum RPC URL",
			},
			&cli.Uint64Flag{
				Name:  "chain-id",
				Usage: "Set the expected chain ID (0 disables the check)",
			},
			&cli.StringFlag{
				Name:  "claims-handler",
				Usage: "Set the claims handler contract address",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Set the staking token contract address",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Set the directory of the claim id store",
			},
			&cli.StringFlag{
				Name:  "env-secrets-path",
				Usage: "Set the path to environment secrets file",
			},
			&cli.StringFlag{
				Name:  "wallet-type",
				Usage: "Set the wallet type (provider, keystore or privatekey)",
			},
			&cli.StringFlag{
				Name:  "wallet-provider-url",
				Usage: "Set the JSON-RPC URL of the wallet provider",
			},
			&cli.StringFlag{
				Name:  "wallet-account",
				Usage: "Set the account to use from the wallet",
			},
			&cli.StringFlag{
				Name:  "keystore-path",
				Usage: "Set the path of the keystore file",
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "Set the receipt polling interval",
			},
			&cli.DurationFlag{
				Name:  "confirmation-timeout",
				Usage: "Set how long to wait for a receipt (0 waits forever)",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Set the maximum number of receipt polls (0 is unbounded)",
			},
		},
		Action: contextSetAction,
	}
}

func contextSetAction(c *cli.Context) error {
	log := config.LoggerFromContext(c.Context)

	cfg, err := editConfig(func(cfg *config.Config) error {
		ctx, err := loadCurrent(cfg)
		if err != nil {
			return err
		}

		changed, err := applyEndpointFlags(c, ctx)
		if err != nil {
			return err
		}
		walletChanged, err := applyWalletFlags(c, ctx)
		if err != nil {
			return err
		}
		changed = append(changed, walletChanged...)
		if applyConfirmationFlags(c, ctx) {
			changed = append(changed, "confirmation")
		}

		if len(changed) == 0 {
			return fmt.Errorf("no values provided to update")
		}
		log.Info("Updating context", zap.String("context", ctx.Name), zap.Strings("fields", changed))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Context '%s' updated\n", cfg.CurrentContext)
	return nil
}

// applyEndpointFlags copies the deployment flags into ctx and returns the
// names of the flags it applied.
func applyEndpointFlags(c *cli.Context, ctx *config.Context) ([]string, error) {
	for flag, label := range map[string]string{"claims-handler": "claims handler", "token": "token"} {
		if v := c.String(flag); v != "" && !common.IsHexAddress(v) {
			return nil, fmt.Errorf("invalid %s address: %s", label, v)
		}
	}

	var changed []string
	for _, f := range []struct {
		flag   string
		target *string
	}{
		{"rpc-url", &ctx.RPCUrl},
		{"claims-handler", &ctx.ClaimsHandlerAddress},
		{"token", &ctx.TokenAddress},
		{"data-dir", &ctx.DataDir},
		{"env-secrets-path", &ctx.EnvSecretsPath},
	} {
		if v := c.String(f.flag); v != "" {
			*f.target = v
			changed = append(changed, f.flag)
		}
	}
	if c.IsSet("chain-id") {
		ctx.ChainID = c.Uint64("chain-id")
		changed = append(changed, "chain-id")
	}
	return changed, nil
}

func applyWalletFlags(c *cli.Context, ctx *config.Context) ([]string, error) {
	if t := c.String("wallet-type"); t != "" {
		switch t {
		case config.WalletTypeProvider, config.WalletTypeKeystore, config.WalletTypePrivateKey:
		default:
			return nil, fmt.Errorf("unsupported wallet type %q (expected %s, %s or %s)",
				t, config.WalletTypeProvider, config.WalletTypeKeystore, config.WalletTypePrivateKey)
		}
	}
	if a := c.String("wallet-account"); a != "" && !common.IsHexAddress(a) {
		return nil, fmt.Errorf("invalid wallet account: %s", a)
	}

	var changed []string
	for flag, set := range map[string]func(w *config.WalletConfig, v string){
		"wallet-type":         func(w *config.WalletConfig, v string) { w.Type = v },
		"wallet-provider-url": func(w *config.WalletConfig, v string) { w.ProviderURL = v },
		"wallet-account":      func(w *config.WalletConfig, v string) { w.Account = v },
		"keystore-path":       func(w *config.WalletConfig, v string) { w.KeystorePath = v },
	} {
		v := c.String(flag)
		if v == "" {
			continue
		}
		if ctx.Wallet == nil {
			ctx.Wallet = &config.WalletConfig{}
		}
		set(ctx.Wallet, v)
		changed = append(changed, flag)
	}
	sort.Strings(changed)
	return changed, nil
}

func applyConfirmationFlags(c *cli.Context, ctx *config.Context) bool {
	if !c.IsSet("poll-interval") && !c.IsSet("confirmation-timeout") && !c.IsSet("max-attempts") {
		return false
	}
	if ctx.Confirmation == nil {
		ctx.Confirmation = &config.ConfirmationConfig{}
	}
	if c.IsSet("poll-interval") {
		ctx.Confirmation.PollInterval = c.Duration("poll-interval")
	}
	if c.IsSet("confirmation-timeout") {
		ctx.Confirmation.Timeout = c.Duration("confirmation-timeout")
	}
	if c.IsSet("max-attempts") {
		ctx.Confirmation.MaxAttempts = c.Int("max-attempts")
	}
	return true
}
