// Package forms holds the view rules of the claim and allowance forms and the
// claim panels. Everything here is pure: no I/O, and the clock is passed in.
package forms

import (
	"strconv"
	"strings"
)

// DefaultApproveAmount is pre-filled in the approve input.
const DefaultApproveAmount uint64 = 150

const unknownAllowance = "..."

// Allowance describes what the allowance form shows for a given allowance.
type Allowance struct {
	Known            bool
	Value            uint64
	Display          string
	ShowApproveInput bool
	ShowClear        bool
	ShowRefresh      bool
}

// AllowanceView renders the allowance form; a nil allowance has not been
// fetched yet.
func AllowanceView(allowance *uint64) Allowance {
	view := Allowance{
		Display:     unknownAllowance,
		ShowRefresh: true,
	}
	if allowance == nil {
		return view
	}

	view.Known = true
	view.Value = *allowance
	view.Display = strconv.FormatUint(*allowance, 10)
	view.ShowApproveInput = *allowance == 0
	view.ShowClear = *allowance > 0
	return view
}

// ParseApproveAmount returns the amount to approve. Empty, zero, negative or
// non-numeric input yields false, which disables the approve action.
func ParseApproveAmount(input string) (uint64, bool) {
	return parsePositive(input)
}

func parsePositive(input string) (uint64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint64(n), true
}
