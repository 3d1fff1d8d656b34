package cdptrack

import (
	"errors"
	"fmt"
)

// Sentinel errors of the engine. Callers classify with errors.Is.
var (
	// ErrDataUnavailable reports a required upstream series missing, empty,
	// or not covering a loan's start date. Fatal for the affected load.
	ErrDataUnavailable = errors.New("required market data unavailable")

	// ErrInvalidEvent reports a malformed input event. Load aborts, the
	// offending row is never silently dropped.
	ErrInvalidEvent = errors.New("invalid event data")

	// ErrDataGap reports a hole at the head of the price series: the first
	// requested day has no observation and no predecessor to carry forward.
	ErrDataGap = errors.New("price series gap")

	// ErrHistoryGap reports a malformed loan whose stats axis starts before
	// its earliest history snapshot.
	ErrHistoryGap = errors.New("stats axis starts before loan history")

	// ErrSequenceGap reports a live append that would skip a calendar day.
	ErrSequenceGap = errors.New("append would break the daily sequence")

	// ErrUnknownDate reports a live patch on a day with no stats row.
	ErrUnknownDate = errors.New("no stats row on that date")
)

// DuplicateLoanError reports a second creation event for a wallet that
// already holds a loan. It matches ErrInvalidEvent.
type DuplicateLoanError struct {
	WalletAddress string
}

func (e *DuplicateLoanError) Error() string {
	return fmt.Sprintf("duplicate loan creation for wallet %q", e.WalletAddress)
}

func (e *DuplicateLoanError) Unwrap() error { return ErrInvalidEvent }

// MissingFieldError reports an event row lacking a required field. It matches
// ErrInvalidEvent.
type MissingFieldError struct {
	Command string // event command the row carried
	Field   string // missing or empty field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s event is missing field %q", e.Command, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrInvalidEvent }

// UnknownWalletError reports an update event addressed to a wallet no
// creation event ever seeded. It matches ErrInvalidEvent.
type UnknownWalletError struct {
	Command       string
	WalletAddress string
}

func (e *UnknownWalletError) Error() string {
	return fmt.Sprintf("%s event for unknown wallet %q", e.Command, e.WalletAddress)
}

func (e *UnknownWalletError) Unwrap() error { return ErrInvalidEvent }
