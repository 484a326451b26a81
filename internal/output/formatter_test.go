package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/forms"
)

func sampleClaim() *claims.Claim {
	return &claims.Claim{
		ID:                2,
		State:             claims.AwaitingResolution,
		DealID:            11,
		ModifiedAt:        time.Unix(1700000000, 0).UTC(),
		RequesterID:       "buyer",
		RespondentID:      "seller",
		RequesterAddress:  common.HexToAddress("0xa1"),
		RespondentAddress: common.HexToAddress("0xb2"),
		RequesterStaked:   decimal.NewFromInt(150),
		RespondentStaked:  decimal.NewFromInt(150),
		ReasonNote:        "broken on arrival",
	}
}

func TestPrintClaim(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatterWithWriter("", &buf).PrintClaim(sampleClaim()))
		out := buf.String()
		assert.Contains(t, out, "Staked MTH")
		assert.Contains(t, out, "AwaitingResolution")
		assert.Contains(t, out, "broken on arrival")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatterWithWriter("json", &buf).PrintClaim(sampleClaim()))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "AwaitingResolution", decoded["state"])
		assert.Equal(t, "150", decoded["requesterStaked"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatterWithWriter("yaml", &buf).PrintClaim(sampleClaim()))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "seller", decoded["respondentId"])
	})

	t.Run("no claim", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatterWithWriter("table", &buf).PrintClaim(nil))
		assert.Equal(t, "No claim loaded\n", buf.String())
	})

	t.Run("unsupported", func(t *testing.T) {
		err := NewFormatterWithWriter("xml", &bytes.Buffer{}).PrintClaim(sampleClaim())
		assert.EqualError(t, err, "unsupported output format: xml")
	})
}

func TestPrintAllowance(t *testing.T) {
	zero := uint64(0)
	var buf bytes.Buffer
	err := NewFormatterWithWriter("table", &buf).PrintAllowance(
		AllowanceOutput{Account: "0xa1", Spender: "0xc1", Allowance: "0"},
		forms.AllowanceView(&zero),
	)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "allowance approve --tokens 150")

	unknown := forms.AllowanceView(nil)
	buf.Reset()
	require.NoError(t, NewFormatterWithWriter("table", &buf).PrintAllowance(AllowanceOutput{}, unknown))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "revoke")
}

func TestPrintPanels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter("table", &buf).PrintPanels(forms.Panels{Accept: true}))
	assert.Contains(t, buf.String(), "does not cover")

	buf.Reset()
	require.NoError(t, NewFormatterWithWriter("json", &buf).PrintPanels(forms.Panels{Close: true}))
	assert.Contains(t, buf.String(), `"Close": true`)
}

func TestPrint_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter("table", &buf).Print(map[string]interface{}{
		"rpcUrl": "http://localhost:8545",
		"name":   "dev",
	}))
	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("name")), bytes.Index([]byte(out), []byte("rpcUrl")))
}
