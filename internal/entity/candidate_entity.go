package entity

import (
	"time"
)

// Candidate is the in-memory record of one screening session. PII fields are
// plaintext here; sealing happens at the store boundary.
type Candidate struct {
	CandidateId        string
	FullName           string
	Email              string
	Phone              string
	YearsExperience    string
	DesiredPosition    string
	CurrentLocation    string
	TechStack          []string
	TechnicalQuestions []string
	Answers            []CandidateAnswer
	ConsentGiven       bool
	ConsentTimestamp   *time.Time
	CreatedAt          time.Time
	RetentionUntil     time.Time
	UpdatedAt          *time.Time
}

type CandidateAnswer struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Evaluation string `json:"evaluation,omitempty"`
}

// Clone returns a deep copy so snapshots handed to the store never alias the
// session's slices.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	out := *c
	out.TechStack = append([]string(nil), c.TechStack...)
	out.TechnicalQuestions = append([]string(nil), c.TechnicalQuestions...)
	out.Answers = append([]CandidateAnswer(nil), c.Answers...)
	if c.ConsentTimestamp != nil {
		t := *c.ConsentTimestamp
		out.ConsentTimestamp = &t
	}
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}
