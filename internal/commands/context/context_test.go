package context

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func setupConfigDir(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	return dir
}

func runContext(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.App{
		Name:      "disputectl",
		Writer:    &out,
		ErrWriter: &bytes.Buffer{},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "table"},
		},
		Commands: []*cli.Command{Command()},
	}
	err := app.Run(append([]string{"disputectl", "context"}, args...))
	return out.String(), err
}

func TestCreateAndUse(t *testing.T) {
	setupConfigDir(t)

	out, err := runContext(t, "create", "staging")
	require.NoError(t, err)
	assert.Contains(t, out, "Context 'staging' created successfully")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultContextName, cfg.CurrentContext)
	require.Contains(t, cfg.Contexts, "staging")
	assert.Equal(t, config.DefaultRPCURL, cfg.Contexts["staging"].RPCUrl)

	_, err = runContext(t, "create", "staging")
	assert.ErrorContains(t, err, "already exists")

	out, err = runContext(t, "use", "staging")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to context 'staging'")

	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.CurrentContext)

	_, err = runContext(t, "use", "missing")
	assert.ErrorContains(t, err, "context 'missing' not found")
}

func TestCreate_WithUse(t *testing.T) {
	setupConfigDir(t)

	out, err := runContext(t, "create", "--use", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "Current context set to 'local'")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.CurrentContext)
}

func TestList(t *testing.T) {
	setupConfigDir(t)

	_, err := runContext(t, "create", "beta")
	require.NoError(t, err)

	out, err := runContext(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CURRENT")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, config.DefaultContextName)
	assert.Contains(t, out, "*")
}

func TestSet(t *testing.T) {
	setupConfigDir(t)

	out, err := runContext(t, "set",
		"--rpc-url", "http://localhost:8545",
		"--chain-id", "1337",
		"--claims-handler", "0x00000000000000000000000000000000000000c1",
		"--token", "0x00000000000000000000000000000000000000e2",
		"--wallet-type", "keystore",
		"--keystore-path", "/tmp/key.json",
		"--poll-interval", "2s",
		"--max-attempts", "10",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Context 'default' updated")

	ctx, err := config.GetCurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", ctx.RPCUrl)
	assert.Equal(t, uint64(1337), ctx.ChainID)
	assert.Equal(t, "0x00000000000000000000000000000000000000c1", ctx.ClaimsHandlerAddress)
	assert.Equal(t, "0x00000000000000000000000000000000000000e2", ctx.TokenAddress)
	require.NotNil(t, ctx.Wallet)
	assert.Equal(t, config.WalletTypeKeystore, ctx.Wallet.Type)
	assert.Equal(t, "/tmp/key.json", ctx.Wallet.KeystorePath)
	require.NotNil(t, ctx.Confirmation)
	assert.Equal(t, 2*time.Second, ctx.Confirmation.PollInterval)
	assert.Equal(t, 10, ctx.Confirmation.MaxAttempts)
	assert.Zero(t, ctx.Confirmation.Timeout)
	assert.NoError(t, ctx.Validate())
}

func TestSet_Errors(t *testing.T) {
	setupConfigDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing to update", nil, "no values provided to update"},
		{"bad claims handler", []string{"--claims-handler", "0x123"}, "invalid claims handler address"},
		{"bad token", []string{"--token", "token"}, "invalid token address"},
		{"bad wallet type", []string{"--wallet-type", "ledger"}, "unsupported wallet type"},
		{"bad wallet account", []string{"--wallet-account", "me"}, "invalid wallet account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runContext(t, append([]string{"set"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestShow(t *testing.T) {
	setupConfigDir(t)

	_, err := runContext(t, "set", "--token", "0x00000000000000000000000000000000000000e2")
	require.NoError(t, err)

	out, err := runContext(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "rpc-url")
	assert.Contains(t, out, "0x00000000000000000000000000000000000000e2")
	assert.Contains(t, out, "store-dir")
}

func TestDelete(t *testing.T) {
	setupConfigDir(t)

	_, err := runContext(t, "create", "old")
	require.NoError(t, err)

	_, err = runContext(t, "delete", config.DefaultContextName)
	assert.ErrorContains(t, err, "cannot delete current context")

	out, err := runContext(t, "delete", "old")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully deleted context 'old'")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.NotContains(t, cfg.Contexts, "old")

	_, err = runContext(t, "delete", "old")
	assert.ErrorContains(t, err, "not found")
}
