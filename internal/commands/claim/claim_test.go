package claim

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/forms"
	"github.com/Layr-Labs/disputectl/internal/testutils/clitest"
)

func seedClaim(t *testing.T, env *clitest.Env, state claims.ClaimStatus, modifiedAt time.Time) {
	t.Helper()
	env.Claims.Claims[1] = &claims.Claim{
		ID:                1,
		State:             state,
		DealID:            12,
		ModifiedAt:        modifiedAt,
		RequesterID:       "buyer",
		RespondentID:      "seller",
		RequesterAddress:  clitest.Requester,
		RespondentAddress: clitest.Respondent,
		RequesterStaked:   decimal.NewFromInt(150),
		ReasonNote:        "never delivered",
	}
	require.NoError(t, env.Store.SaveClaimID(context.Background(), 1))
}

func TestShow_NoClaim(t *testing.T) {
	env := clitest.NewEnv(t)

	out, err := env.Run(t, Command(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No claim loaded")
}

func TestShow_SelectsClaim(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Claims[9] = &claims.Claim{ID: 9, State: claims.AwaitingResolution, ReasonNote: "broken"}

	out, err := env.Run(t, Command(), "show", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "AwaitingResolution")
	assert.Contains(t, out, "broken")

	id, err := env.Store.LoadClaimID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)

	out, err = env.Run(t, Command(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "broken")

	// ids are contract indexes, so the first claim is 0
	env.Claims.Claims[0] = &claims.Claim{ID: 0, State: claims.AwaitingAcceptance, ReasonNote: "first ever"}
	out, err = env.Run(t, Command(), "show", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "first ever")

	id, err = env.Store.LoadClaimID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}

func TestShow_Errors(t *testing.T) {
	env := clitest.NewEnv(t)

	_, err := env.Run(t, Command(), "show", "abc")
	assert.ErrorContains(t, err, `invalid claim id "abc"`)

	_, err = env.Run(t, Command(), "show", "-1")
	assert.Error(t, err)

	_, err = env.Run(t, Command(), "show", "0")
	assert.ErrorIs(t, err, claims.ErrClaimNotFound)

	_, err = env.Run(t, Command(), "show", "77")
	assert.ErrorIs(t, err, claims.ErrClaimNotFound)

	_, err = env.Store.LoadClaimID(context.Background())
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Allowances[clitest.Requester] = decimal.NewFromInt(500)

	out, err := env.RunWithOutput(t, "json", Command(), "create",
		"--deal-id", "12",
		"--reason", "never delivered",
		"--requester-id", "buyer",
		"--respondent-id", "seller",
		"--stake", "200",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, env.Claims.Built())

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, out, "never delivered")

	id, err := env.Store.LoadClaimID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
}

func TestCreate_StaleSavedClaim(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Allowances[clitest.Requester] = decimal.NewFromInt(500)
	require.NoError(t, env.Store.SaveClaimID(context.Background(), 999))

	_, err := env.Run(t, Command(), "create",
		"--deal-id", "12",
		"--reason", "never delivered",
		"--requester-id", "buyer",
		"--respondent-id", "seller",
		"--stake", "200",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, env.Claims.Built())

	id, err := env.Store.LoadClaimID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
}

func TestActions_StaleSavedClaim(t *testing.T) {
	env := clitest.NewEnv(t)
	require.NoError(t, env.Store.SaveClaimID(context.Background(), 999))

	_, err := env.Run(t, Command(), "close")
	assert.ErrorIs(t, err, claims.ErrClaimNotFound)
	assert.Empty(t, env.Claims.Built())
}

func TestCreate_Invalid(t *testing.T) {
	env := clitest.NewEnv(t)
	env.Claims.Allowances[clitest.Requester] = decimal.NewFromInt(180)

	base := []string{"create", "--deal-id", "12", "--reason", "late", "--requester-id", "buyer", "--respondent-id", "seller"}

	_, err := env.Run(t, Command(), append(base, "--stake", "300")...)
	assert.ErrorContains(t, err, "closest valid stake: 180")

	var verr *forms.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = env.Run(t, Command(), "create", "--deal-id", "0", "--reason", "late", "--requester-id", "a", "--respondent-id", "b")
	assert.ErrorContains(t, err, "dealId")

	_, err = env.Run(t, Command(), "create", "--deal-id", "12")
	assert.Error(t, err)

	assert.Empty(t, env.Wallet.Submitted())
}

func TestAccept(t *testing.T) {
	env := clitest.NewEnv(t)
	seedClaim(t, env, claims.AwaitingAcceptance, time.Now())
	env.Wallet.Select(clitest.Respondent)

	_, err := env.Run(t, Command(), "accept")
	assert.ErrorContains(t, err, "does not cover")
	assert.Empty(t, env.Wallet.Submitted())

	env.Claims.Allowances[clitest.Respondent] = decimal.NewFromInt(150)
	_, err = env.Run(t, Command(), "accept")
	require.NoError(t, err)
	assert.Equal(t, []string{"accept"}, env.Claims.Built())
}

func TestResolve(t *testing.T) {
	env := clitest.NewEnv(t)
	seedClaim(t, env, claims.AwaitingAcceptance, time.Now())
	env.Wallet.Select(clitest.Respondent)

	_, err := env.Run(t, Command(), "resolve", "--resolution", "refunded")
	assert.ErrorContains(t, err, "cannot be resolved")

	env.Claims.Claims[1].State = claims.AwaitingResolution
	_, err = env.Run(t, Command(), "resolve", "--resolution", "refunded")
	require.NoError(t, err)
	assert.Equal(t, []string{"resolve"}, env.Claims.Built())
}

func TestClose(t *testing.T) {
	env := clitest.NewEnv(t)
	seedClaim(t, env, claims.AwaitingAcceptance, time.Now().Add(-time.Hour))

	_, err := env.Run(t, Command(), "close")
	assert.ErrorContains(t, err, "cannot be closed yet")

	env.Claims.Claims[1].ModifiedAt = time.Now().Add(-forms.ExpiryWindow - time.Minute)
	_, err = env.Run(t, Command(), "close")
	require.NoError(t, err)
	assert.Equal(t, []string{"close"}, env.Claims.Built())
}

func TestActionsWithoutClaim(t *testing.T) {
	env := clitest.NewEnv(t)

	for _, args := range [][]string{{"accept"}, {"close"}, {"resolve", "--resolution", "x"}} {
		_, err := env.Run(t, Command(), args...)
		assert.ErrorIs(t, err, errNoClaim, args[0])
	}
}

func TestPanels(t *testing.T) {
	env := clitest.NewEnv(t)
	seedClaim(t, env, claims.AwaitingConfirmation, time.Now())

	out, err := env.RunWithOutput(t, "json", Command(), "panels")
	require.NoError(t, err)

	var got forms.Panels
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, forms.Panels{Close: true}, got)
}
