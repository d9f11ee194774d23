package entity

import "time"

type AuditEvent struct {
	Id          int64
	Timestamp   time.Time
	EventType   string
	CandidateId string
	Details     string
}
