package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no claim id has been saved yet
	ErrNotFound = errors.New("item not found")

	// ErrStoreClosed is returned when attempting to use a closed storage instance
	ErrStoreClosed = errors.New("storage is closed")
)

// ClaimIDKey is the only key the client persists.
const ClaimIDKey = "claim_id"

// ClaimStore remembers the last claim the user worked with so that it can be
// reloaded on the next start.
type ClaimStore interface {
	SaveClaimID(ctx context.Context, id uint64) error
	LoadClaimID(ctx context.Context) (uint64, error)

	Close() error
}
