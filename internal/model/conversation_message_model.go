package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ConversationMessage struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CandidateId string           `gorm:"type:varchar(64);not null;index"`
	Role        string           `gorm:"type:varchar(16);not null"`
	Content     string           `gorm:"type:text;not null"` // ciphertext
	Stage       string           `gorm:"type:varchar(32)"`
	Embedding   *pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text
	CreatedAt   time.Time        `gorm:"not null;index"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
