package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is anything published on the bus. Subject is relative to the stream
// prefix, e.g. "audit.DATA_CREATED".
type Event interface {
	Subject() string
	Encode() ([]byte, error)
}

// AuditRecorded mirrors one stored audit row. It carries the candidate id
// and never any record content.
type AuditRecorded struct {
	Prefix      string    `json:"-"`
	Id          int64     `json:"id"`
	EventType   string    `json:"event_type"`
	CandidateId string    `json:"candidate_id"`
	Details     string    `json:"details"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e AuditRecorded) Subject() string {
	return e.Prefix + "." + e.EventType
}

func (e AuditRecorded) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeAuditRecorded reverses Encode. The prefix is not part of the payload.
func DecodeAuditRecorded(data []byte) (AuditRecorded, error) {
	var e AuditRecorded
	if err := json.Unmarshal(data, &e); err != nil {
		return AuditRecorded{}, fmt.Errorf("decode audit event: %w", err)
	}
	if e.EventType == "" {
		return AuditRecorded{}, fmt.Errorf("decode audit event: missing event_type")
	}
	return e, nil
}
