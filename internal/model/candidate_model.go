package model

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate rows hold PII (full_name, email, phone) as CipherBox ciphertext.
type Candidate struct {
	CandidateId        string                                   `gorm:"type:varchar(64);primaryKey"`
	FullName           string                                   `gorm:"type:text"`
	Email              string                                   `gorm:"type:text"`
	Phone              string                                   `gorm:"type:text"`
	YearsExperience    string                                   `gorm:"type:varchar(32)"`
	DesiredPosition    string                                   `gorm:"type:varchar(255)"`
	CurrentLocation    string                                   `gorm:"type:varchar(255)"`
	TechStack          datatypes.JSONSlice[string]              `gorm:"type:jsonb"`
	TechnicalQuestions datatypes.JSONSlice[string]              `gorm:"type:jsonb"`
	Answers            datatypes.JSONSlice[CandidateAnswerJSON] `gorm:"type:jsonb"`
	ConsentGiven       bool                                     `gorm:"not null;default:false"`
	ConsentTimestamp   *time.Time
	CreatedAt          time.Time `gorm:"not null"`
	RetentionUntil     time.Time `gorm:"not null;index"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

type CandidateAnswerJSON struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Evaluation string `json:"evaluation,omitempty"`
}

func (Candidate) TableName() string {
	return "candidates"
}
