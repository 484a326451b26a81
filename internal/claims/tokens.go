package claims

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of decimals of the MTH staking token.
const TokenDecimals int32 = 5

// ToBaseUnits converts whole tokens to the token's smallest unit.
func ToBaseUnits(tokens decimal.Decimal, decimals int32) *big.Int {
	return tokens.Shift(decimals).Truncate(0).BigInt()
}

// FromBaseUnits converts an on-chain amount to whole tokens.
func FromBaseUnits(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}
