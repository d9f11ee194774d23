package model

import "time"

// AuditEvent is append-only. The serial id gives insertion order.
type AuditEvent struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"not null;index"`
	EventType   string    `gorm:"type:varchar(32);not null;index"`
	CandidateId string    `gorm:"type:varchar(64);not null;index"`
	Details     string    `gorm:"type:text"`
}

func (AuditEvent) TableName() string {
	return "audit_log"
}
