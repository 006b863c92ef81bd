package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrMalformedEntry = errors.New("malformed ledger entry")
	ErrTransport      = errors.New("upstream transport failure")
	ErrParse          = errors.New("upstream payload not parseable")
	ErrStorage        = errors.New("storage failure")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrInvalidRequest = errors.New("invalid request")
)

// RecordError tags a storage failure with the key of the record being merged.
type RecordError struct {
	Code  string
	Level Level
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s (level %d): %v", e.Code, e.Level, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
