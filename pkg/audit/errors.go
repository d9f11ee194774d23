package audit

import "fmt"

// AuditWriteError is an append that did not make it to storage. Record logs
// and drops it; it never reaches the operation that triggered the event.
type AuditWriteError struct {
	EventType   EventType
	CandidateId string
	Err         error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit write %s for %s failed: %v", e.EventType, e.CandidateId, e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}
