package forms

import (
	"time"

	"github.com/Layr-Labs/disputectl/internal/claims"
)

// ExpiryWindow is how long a claim may wait for acceptance or resolution
// before anyone can close it.
const ExpiryWindow = 72 * time.Hour

type Panels struct {
	Accept        bool
	AcceptAllowed bool
	Resolve       bool
	Close         bool
}

// PanelsFor returns which claim panels are enabled. A nil claim enables none.
func PanelsFor(claim *claims.Claim, allowance *uint64, now time.Time) Panels {
	if claim == nil {
		return Panels{}
	}

	p := Panels{
		Accept:  claim.State == claims.AwaitingAcceptance,
		Resolve: claim.State == claims.AwaitingResolution,
		Close:   closable(claim, now),
	}
	if p.Accept {
		var available uint64
		if allowance != nil {
			available = *allowance
		}
		p.AcceptAllowed = claim.RequesterStaked.LessThanOrEqual(decimalFromUint(available))
	}
	return p
}

func closable(claim *claims.Claim, now time.Time) bool {
	switch claim.State {
	case claims.AwaitingConfirmation:
		return true
	case claims.AwaitingAcceptance, claims.AwaitingResolution:
		// whole hours only, matching the contract's expiry check
		hours := int64(now.Sub(claim.ModifiedAt) / time.Hour)
		return hours >= int64(ExpiryWindow/time.Hour)
	default:
		return false
	}
}
