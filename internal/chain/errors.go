package chain

import (
	"errors"
	"fmt"
)

var (
	ErrTransactionFailed   = errors.New("transaction has failed")
	ErrConfirmationTimeout = errors.New("timed out waiting for transaction confirmation")
	ErrBadEndpoint         = errors.New("ethereum node address is incorrect")
)

// NetworkError wraps a failed node round trip.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func networkError(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}
