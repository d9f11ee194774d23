package dto

import "time"

type StartSessionRequest struct {
	Consent bool `json:"consent" validate:"required"`
}

type StartSessionResponse struct {
	CandidateId string   `json:"candidate_id"`
	Stage       string   `json:"stage"`
	Messages    []string `json:"messages"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type SendMessageResponse struct {
	CandidateId  string   `json:"candidate_id"`
	Stage        string   `json:"stage"`
	Messages     []string `json:"messages"`
	Ended        bool     `json:"ended"`
	Completed    bool     `json:"completed"`
	Rejected     bool     `json:"rejected"`
	UpdatedField string   `json:"updated_field,omitempty"`
	Recalled     bool     `json:"recalled,omitempty"`
	Warning      string   `json:"warning,omitempty"`
}

type SessionStateResponse struct {
	CandidateId   string    `json:"candidate_id"`
	Stage         string    `json:"stage"`
	Ended         bool      `json:"ended"`
	SavePending   bool      `json:"save_pending,omitempty"`
	QuestionIndex int       `json:"question_index"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}

type ConversationMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
}

// ScreeningCompletedMessage is the payload of the screening-completed topic.
type ScreeningCompletedMessage struct {
	CandidateId string    `json:"candidate_id"`
	CompletedAt time.Time `json:"completed_at"`
}
