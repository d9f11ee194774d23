package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByCandidateId struct {
	CandidateId string
}

func (s ByCandidateId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("candidate_id = ?", s.CandidateId)
}

type ByCandidateIds struct {
	CandidateIds []string
}

func (s ByCandidateIds) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("candidate_id IN ?", s.CandidateIds)
}

// RetentionExpiredBefore matches rows whose retention window closed before At.
type RetentionExpiredBefore struct {
	At time.Time
}

func (s RetentionExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("retention_until < ?", s.At)
}

// HasEmbedding skips transcript lines stored without a vector.
type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
