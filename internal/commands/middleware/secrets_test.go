package middleware

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/chain"
	"github.com/Layr-Labs/disputectl/internal/config"
)

func newCliContext(t *testing.T, currentCtx *config.Context) *cli.Context {
	t.Helper()
	app := &cli.App{Name: "disputectl", Writer: os.Stdout, ErrWriter: os.Stderr}
	c := cli.NewContext(app, flag.NewFlagSet("test", flag.ContinueOnError), nil)
	c.Context = context.Background()
	if currentCtx != nil {
		c.Context = context.WithValue(c.Context, config.ContextKey, currentCtx)
	}
	return c
}

func TestSecretsBeforeFunc(t *testing.T) {
	secrets := filepath.Join(t.TempDir(), "secrets.env")
	content := `# wallet secrets
PRIVATE_KEY=0x1234567890abcdef
KEYSTORE_PASSWORD="my-secret-password"
DISPUTECTL_TEST_PRESET=from-file
`
	require.NoError(t, os.WriteFile(secrets, []byte(content), 0600))

	t.Setenv(config.PrivateKeyEnv, "")
	t.Setenv(config.KeystorePassword, "")
	t.Setenv("DISPUTECTL_TEST_PRESET", "from-env")

	c := newCliContext(t, &config.Context{Name: "dev", EnvSecretsPath: secrets})
	require.NoError(t, SecretsBeforeFunc(c))

	assert.Equal(t, "0x1234567890abcdef", os.Getenv(config.PrivateKeyEnv))
	assert.Equal(t, "my-secret-password", os.Getenv(config.KeystorePassword))
	assert.Equal(t, "from-env", os.Getenv("DISPUTECTL_TEST_PRESET"))
}

func TestSecretsBeforeFunc_MissingFileOrContext(t *testing.T) {
	c := newCliContext(t, &config.Context{EnvSecretsPath: filepath.Join(t.TempDir(), "nope.env")})
	assert.NoError(t, SecretsBeforeFunc(c))

	assert.NoError(t, SecretsBeforeFunc(newCliContext(t, nil)))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "test", "file.env"), expandPath("~/test/file.env"))
	assert.Equal(t, "/abs/file.env", expandPath("/abs/file.env"))
	assert.Equal(t, "rel/~/file.env", expandPath("rel/~/file.env"))
}

func TestConfirmationPolicy(t *testing.T) {
	p := confirmationPolicy(nil)
	assert.Equal(t, *chain.DefaultConfirmationPolicy(), *p)

	p = confirmationPolicy(&config.ConfirmationConfig{MaxAttempts: 30})
	assert.Equal(t, 30, p.MaxAttempts)
	assert.Equal(t, chain.DefaultConfirmationPolicy().PollInterval, p.PollInterval)
}

func TestRuntimeBeforeFunc_Validation(t *testing.T) {
	c := newCliContext(t, nil)
	assert.ErrorContains(t, RuntimeBeforeFunc(c), "no context configured")

	c = newCliContext(t, &config.Context{Name: "dev", Wallet: &config.WalletConfig{Type: "provider"}})
	assert.ErrorContains(t, RuntimeBeforeFunc(c), "claims handler address is required")

	c = newCliContext(t, &config.Context{
		Name:                 "dev",
		ClaimsHandlerAddress: "not-an-address",
		TokenAddress:         "0x00000000000000000000000000000000000000d1",
		Wallet:               &config.WalletConfig{Type: "provider"},
	})
	assert.ErrorContains(t, RuntimeBeforeFunc(c), "invalid claims handler address")
}

func TestRuntimeBeforeFunc_KeepsInjectedRuntime(t *testing.T) {
	rt := NewRuntime(nil, nil, common.HexToAddress("0xc1"), common.HexToAddress("0xd1"))
	c := newCliContext(t, nil)
	c.Context = context.WithValue(c.Context, config.ControllerKey, rt)

	require.NoError(t, RuntimeBeforeFunc(c))
	got, err := RuntimeFromContext(c)
	require.NoError(t, err)
	assert.Same(t, rt, got)
}

func TestRuntime_CloseOrder(t *testing.T) {
	var order []string
	rt := NewRuntime(nil, nil, common.Address{}, common.Address{},
		func() error { order = append(order, "node"); return nil },
		func() error { order = append(order, "store"); return nil },
	)
	require.NoError(t, rt.Close())
	assert.Equal(t, []string{"store", "node"}, order)
	require.NoError(t, rt.Close())
	assert.Len(t, order, 2)
}
