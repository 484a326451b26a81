package forms

import (
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Layr-Labs/disputectl/internal/claims"
)

// Row is one labelled line of the claim info panel.
type Row struct {
	Label string
	Value string
}

const modifiedAtLayout = time.RFC3339

// ClaimInfo renders the claim info panel rows in display order.
func ClaimInfo(c *claims.Claim) []Row {
	if c == nil {
		return nil
	}
	return []Row{
		{"Id", strconv.FormatUint(c.ID, 10)},
		{"State", c.State.String()},
		{"Deal ID", strconv.FormatUint(c.DealID, 10)},
		{"Modified at", c.ModifiedAt.Local().Format(modifiedAtLayout)},
		{"Requester ID", c.RequesterID},
		{"Respondent ID", c.RespondentID},
		{"Requester address", c.RequesterAddress.Hex()},
		{"Respondent address", c.RespondentAddress.Hex()},
		{"Staked MTH", c.RequesterStaked.String()},
		{"Reason", c.ReasonNote},
		{"Resolution", c.ResolutionNote},
	}
}

func decimalFromUint(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
