package claims

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type ClaimStatus uint8

const (
	AwaitingAcceptance ClaimStatus = iota
	AwaitingResolution
	AwaitingConfirmation
	ClosedAfterAcceptanceExpired
	ClosedAfterResolutionExpired
	ClosedAfterConfirmationExpired
	ClosedAfterConfirmation
)

var statusNames = map[ClaimStatus]string{
	AwaitingAcceptance:             "AwaitingAcceptance",
	AwaitingResolution:             "AwaitingResolution",
	AwaitingConfirmation:           "AwaitingConfirmation",
	ClosedAfterAcceptanceExpired:   "ClosedAfterAcceptanceExpired",
	ClosedAfterResolutionExpired:   "ClosedAfterResolutionExpired",
	ClosedAfterConfirmationExpired: "ClosedAfterConfirmationExpired",
	ClosedAfterConfirmation:        "ClosedAfterConfirmation",
}

func (s ClaimStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}

func (s ClaimStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Claim is a read-only snapshot of a dispute as stored by the contract.
// Staked amounts are in whole tokens.
type Claim struct {
	ID                uint64          `json:"id"`
	State             ClaimStatus     `json:"state"`
	DealID            uint64          `json:"dealId"`
	ModifiedAt        time.Time       `json:"modifiedAt"`
	RequesterID       string          `json:"requesterId"`
	RespondentID      string          `json:"respondentId"`
	RequesterAddress  common.Address  `json:"requesterAddress"`
	RespondentAddress common.Address  `json:"respondentAddress"`
	RequesterStaked   decimal.Decimal `json:"requesterStaked"`
	RespondentStaked  decimal.Decimal `json:"respondentStaked"`
	ReasonNote        string          `json:"reasonNote"`
	ResolutionNote    string          `json:"resolutionNote"`
}

type CreateClaimPayload struct {
	DealID       uint64
	Reason       string
	RequesterID  string
	RespondentID string
	// Tokens to stake, in whole tokens
	Tokens uint64
}

// Tx is a contract call ready to be wrapped into a raw transaction.
type Tx struct {
	Method string
	To     common.Address
	Data   []byte
}
