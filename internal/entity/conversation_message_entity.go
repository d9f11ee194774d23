package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ConversationMessage is one transcript line. Embedding is optional and only
// present when recall is enabled.
type ConversationMessage struct {
	Id          uuid.UUID
	CandidateId string
	Role        string
	Content     string
	Stage       string
	Embedding   []float32
	CreatedAt   time.Time
}

// ConversationMatch is a transcript line returned by similarity search.
type ConversationMatch struct {
	Message  *ConversationMessage
	Distance float64
}
