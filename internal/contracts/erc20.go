package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20ABI is the subset of the staking token used to manage the claims
// handler's allowance.
const ERC20ABI = `[
	{"type": "function", "name": "allowance", "stateMutability": "view",
	 "inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}],
	 "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "approve", "stateMutability": "nonpayable",
	 "inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}],
	 "outputs": [{"name": "", "type": "bool"}]},
	{"type": "event", "name": "Approval", "anonymous": false,
	 "inputs": [
		{"name": "owner", "type": "address", "indexed": true},
		{"name": "spender", "type": "address", "indexed": true},
		{"name": "value", "type": "uint256", "indexed": false}]}
]`

func ParseERC20ABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ERC20ABI))
}
