package forms

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/disputectl/internal/claims"
)

// MinStake is the smallest stake the claims handler accepts, in whole tokens.
const MinStake uint64 = 150

// ValidationError lists the fields of a form that failed validation.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// ClampStake normalizes the stake input. Anything unparseable or below
// MinStake becomes MinStake; with a known allowance above MinStake the stake
// is capped at the allowance.
func ClampStake(input string, allowance *uint64) uint64 {
	stake, ok := parsePositive(input)
	if !ok || stake < MinStake {
		return MinStake
	}
	if allowance != nil && *allowance > MinStake && stake > *allowance {
		return *allowance
	}
	return stake
}

// ParseDealID parses the deal id input. Empty, zero, negative or non-numeric
// input yields false.
func ParseDealID(input string) (uint64, bool) {
	return parsePositive(input)
}

// CreateForm is the raw input of the create claim form.
type CreateForm struct {
	DealID       string
	Reason       string
	RequesterID  string
	RespondentID string
	Stake        string
}

// Validate checks the form against the current allowance and returns the
// payload to submit. An unknown allowance counts as zero.
func (f CreateForm) Validate(allowance *uint64) (claims.CreateClaimPayload, error) {
	verr := &ValidationError{}

	var available uint64
	if allowance != nil {
		available = *allowance
	}

	stake, ok := parsePositive(f.Stake)
	switch {
	case !ok || stake < MinStake:
		verr.add("stake", fmt.Sprintf("must be at least %d", MinStake))
	case stake > available:
		verr.add("stake", fmt.Sprintf("exceeds the allowance of %d", available))
	}

	dealID, ok := ParseDealID(f.DealID)
	if !ok {
		verr.add("dealId", "is required")
	}

	reason := strings.TrimSpace(f.Reason)
	if reason == "" {
		verr.add("reason", "is required")
	}
	requesterID := strings.TrimSpace(f.RequesterID)
	if requesterID == "" {
		verr.add("requesterId", "is required")
	}
	respondentID := strings.TrimSpace(f.RespondentID)
	if respondentID == "" {
		verr.add("respondentId", "is required")
	}

	if len(verr.Fields) > 0 {
		return claims.CreateClaimPayload{}, verr
	}

	return claims.CreateClaimPayload{
		DealID:       dealID,
		Reason:       reason,
		RequesterID:  requesterID,
		RespondentID: respondentID,
		Tokens:       stake,
	}, nil
}

// CanCreate reports whether the create action should be enabled.
func (f CreateForm) CanCreate(allowance *uint64) bool {
	_, err := f.Validate(allowance)
	return err == nil
}
