package dto

import "time"

// CandidateRecordDocument is the export shape of a candidate record. Field
// order here is the order of the JSON document and of the CSV columns.
type CandidateRecordDocument struct {
	CandidateId        string                    `json:"candidate_id"`
	FullName           string                    `json:"full_name"`
	Email              string                    `json:"email"`
	Phone              string                    `json:"phone"`
	YearsExperience    string                    `json:"years_experience"`
	DesiredPosition    string                    `json:"desired_position"`
	CurrentLocation    string                    `json:"current_location"`
	TechStack          []string                  `json:"tech_stack"`
	TechnicalQuestions []string                  `json:"technical_questions"`
	Answers            []CandidateAnswerDocument `json:"answers"`
	CreatedAt          time.Time                 `json:"created_at"`
	RetentionUntil     time.Time                 `json:"retention_until"`
	ConsentGiven       bool                      `json:"consent_given"`
	ConsentTimestamp   *time.Time                `json:"consent_timestamp"`
}

type CandidateAnswerDocument struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Evaluation string `json:"evaluation,omitempty"`
}

// CandidateSummaryResponse carries no PII; it backs the admin listing.
type CandidateSummaryResponse struct {
	CandidateId     string     `json:"candidate_id"`
	YearsExperience string     `json:"years_experience"`
	DesiredPosition string     `json:"desired_position"`
	TechStack       []string   `json:"tech_stack"`
	QuestionCount   int        `json:"question_count"`
	AnswerCount     int        `json:"answer_count"`
	CreatedAt       time.Time  `json:"created_at"`
	RetentionUntil  time.Time  `json:"retention_until"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

type ListCandidatesResponse struct {
	Candidates []*CandidateSummaryResponse `json:"candidates"`
	Total      int64                       `json:"total"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
}

type ExportCandidateRequest struct {
	Format string `query:"format"`
}

type DeleteCandidateResponse struct {
	CandidateId string `json:"candidate_id"`
	Deleted     bool   `json:"deleted"`
}

type RetentionSweepResponse struct {
	Deleted int       `json:"deleted"`
	RanAt   time.Time `json:"ran_at"`
}

type AuditEventResponse struct {
	Id          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	CandidateId string    `json:"candidate_id"`
	Details     string    `json:"details"`
}

type ListAuditEventsRequest struct {
	CandidateId string `query:"candidate_id"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=500"`
}
