package points

import (
	"errors"
	"fmt"
)

// Errors returned by the aggregator and planner.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a positive integer", ErrInvalidInput)
	ErrNoTokens          = errors.New("no points tokens owned")
	ErrInsufficientFunds = errors.New("insufficient points")
	ErrQueryFailure      = errors.New("query failure")
)

// InsufficientFundsError reports how far short the owner's tokens fall.
type InsufficientFundsError struct {
	Have uint64
	Need uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d", ErrInsufficientFunds, e.Have, e.Need)
}

// Unwrap lets errors.Is match ErrInsufficientFunds.
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// QueryError wraps a listing failure. It matches ErrQueryFailure and the
// underlying cause.
type QueryError struct {
	Owner string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrQueryFailure, e.Owner, e.Err)
}

// Unwrap returns both ErrQueryFailure and the cause.
func (e *QueryError) Unwrap() []error {
	return []error{ErrQueryFailure, e.Err}
}
