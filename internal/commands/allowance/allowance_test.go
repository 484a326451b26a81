package allowance

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/disputectl/internal/output"
	"github.com/Layr-Labs/disputectl/internal/testutils/clitest"
)

func TestShow(t *testing.T) {
	env := clitest.NewEnv(t)

	out, err := env.Run(t, Command(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, clitest.Requester.Hex())
	assert.Contains(t, out, clitest.Handler.Hex())
	assert.Contains(t, out, "allowance approve --tokens 150")
	assert.Empty(t, env.Wallet.Submitted())
}

func TestShow_JSON(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Allowances[clitest.Requester] = decimal.RequireFromString("250.5")

	out, err := env.RunWithOutput(t, "json", Command(), "show")
	require.NoError(t, err)

	var got output.AllowanceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "250.5", got.Allowance)
	assert.Equal(t, clitest.Requester.Hex(), got.Account)
	assert.Equal(t, clitest.Handler.Hex(), got.Spender)

	out, err = env.Run(t, Command(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "250")
	assert.NotContains(t, out, "250.5")
}

func TestApprove(t *testing.T) {
	env := clitest.NewEnv(t)

	_, err := env.Run(t, Command(), "approve")
	require.NoError(t, err)
	assert.Equal(t, []string{"approve"}, env.Claims.Built())

	submitted := env.Wallet.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, clitest.Token, submitted[0].To)

	env.Claims.Allowances[clitest.Requester] = decimal.NewFromInt(150)
	_, err = env.Run(t, Command(), "approve", "--tokens", "500")
	assert.ErrorContains(t, err, "allowance clear")
	assert.Len(t, env.Wallet.Submitted(), 1)

	env.Claims.Allowances[clitest.Requester] = decimal.Zero
	_, err = env.Run(t, Command(), "approve", "--tokens", "500")
	require.NoError(t, err)
	assert.Len(t, env.Wallet.Submitted(), 2)
}

func TestApprove_InvalidAmount(t *testing.T) {
	env := clitest.NewEnv(t)

	for _, amount := range []string{"0", "-3", "lots", ""} {
		_, err := env.Run(t, Command(), "approve", "--tokens", amount)
		assert.ErrorContains(t, err, "must be a positive whole number", amount)
	}
	assert.Empty(t, env.Wallet.Submitted())
}

func TestClear(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Allowances[clitest.Requester] = decimal.NewFromInt(150)

	out, err := env.Run(t, Command(), "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "allowance clear")
	assert.Equal(t, []string{"approve"}, env.Claims.Built())
	assert.Len(t, env.Wallet.Submitted(), 1)
}

func TestClear_NothingToClear(t *testing.T) {
	env := clitest.NewEnv(t)

	_, err := env.Run(t, Command(), "clear")
	assert.EqualError(t, err, "no allowance to clear")
	assert.Empty(t, env.Claims.Built())
	assert.Empty(t, env.Wallet.Submitted())
}

func TestApproveAndClear_UnknownAllowance(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.AllowanceErr = errors.New("node down")

	_, err := env.Run(t, Command(), "approve")
	assert.ErrorContains(t, err, "node down")
	_, err = env.Run(t, Command(), "clear")
	assert.ErrorContains(t, err, "node down")
	assert.Empty(t, env.Wallet.Submitted())
}
