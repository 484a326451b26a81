package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// RawTransaction is a fully specified legacy call package ready for signing.
// Big integer fields are copied on the way in and out so a built value cannot
// be changed through an alias.
type RawTransaction struct {
	From     common.Address
	To       common.Address
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	Value    *big.Int
	Data     []byte
}

func NewRawTransaction(from, to common.Address, nonce uint64, gasPrice *big.Int, gasLimit uint64, data []byte) RawTransaction {
	return RawTransaction{
		From:     from,
		To:       to,
		Nonce:    nonce,
		GasPrice: copyInt(gasPrice),
		GasLimit: gasLimit,
		Value:    big.NewInt(0),
		Data:     common.CopyBytes(data),
	}
}

// Transaction builds the unsigned go-ethereum transaction.
func (r RawTransaction) Transaction() *types.Transaction {
	to := r.To
	return types.NewTx(&types.LegacyTx{
		Nonce:    r.Nonce,
		GasPrice: copyInt(r.GasPrice),
		Gas:      r.GasLimit,
		To:       &to,
		Value:    copyInt(r.Value),
		Data:     common.CopyBytes(r.Data),
	})
}

// CallArgs renders the transaction the way eth_sendTransaction expects it.
func (r RawTransaction) CallArgs() map[string]interface{} {
	return map[string]interface{}{
		"from":     r.From.Hex(),
		"to":       r.To.Hex(),
		"nonce":    hexutil.EncodeUint64(r.Nonce),
		"gasPrice": hexutil.EncodeBig(copyInt(r.GasPrice)),
		"gas":      hexutil.EncodeUint64(r.GasLimit),
		"value":    hexutil.EncodeBig(copyInt(r.Value)),
		"data":     hexutil.Encode(r.Data),
	}
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// ReceiptSucceeded reports whether the receipt carries the success status.
func ReceiptSucceeded(r *types.Receipt) bool {
	return r != nil && r.Status == types.ReceiptStatusSuccessful
}
