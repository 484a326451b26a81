package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const ClaimChangedEvent = "ClaimChanged"

// ClaimsHandlerABI is the dispute contract surface used by the client
const ClaimsHandlerABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "_dealId", "type": "uint256"},
			{"name": "_reasonNote", "type": "string"},
			{"name": "_requesterId", "type": "string"},
			{"name": "_respondentId", "type": "string"},
			{"name": "_amountToStake", "type": "uint256"}
		],
		"name": "create",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "_claimIdx", "type": "uint256"}],
		"name": "accept",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_claimIdx", "type": "uint256"},
			{"name": "_resolutionNote", "type": "string"}
		],
		"name": "resolve",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "_claimIdx", "type": "uint256"}],
		"name": "close",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "getClaimsCount",
		"outputs": [{"name": "count", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "uint256"}],
		"name": "claims",
		"outputs": [
			{"name": "state", "type": "uint8"},
			{"name": "modified", "type": "uint32"},
			{"name": "dealId", "type": "uint128"},
			{"name": "reasonNote", "type": "string"},
			{"name": "requesterId", "type": "string"},
			{"name": "requesterAddress", "type": "address"},
			{"name": "requesterStaked", "type": "uint128"},
			{"name": "respondentId", "type": "string"},
			{"name": "respondentAddress", "type": "address"},
			{"name": "respondentStaked", "type": "uint128"},
			{"name": "resolutionNote", "type": "string"}
		],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "requesterAddress", "type": "address"},
			{"indexed": true, "name": "dealId", "type": "uint256"},
			{"indexed": true, "name": "claimIdx", "type": "uint256"},
			{"indexed": false, "name": "state", "type": "uint8"}
		],
		"name": "ClaimChanged",
		"type": "event"
	}
]`

func ParseClaimsHandlerABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ClaimsHandlerABI))
}
