package service

import (
	"errors"
	"fmt"
)

var (
	ErrCandidateNotFound       = errors.New("candidate not found")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrSessionNotFound         = errors.New("screening session not found")
	ErrConsentRequired         = errors.New("consent is required before any data is stored")

	errConcurrentWrite = errors.New("record changed by a concurrent writer")
)

// PersistenceError means the store could not complete a write. Callers keep
// their in-memory copy and may retry.
type PersistenceError struct {
	Op          string
	CandidateId string
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s candidate %s: %v", e.Op, e.CandidateId, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
