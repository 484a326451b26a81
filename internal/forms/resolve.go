package forms

import "strings"

// ValidateResolution trims the resolution note and fails when nothing is left.
func ValidateResolution(note string) (string, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		verr := &ValidationError{}
		verr.add("resolution", "is required")
		return "", verr
	}
	return note, nil
}
