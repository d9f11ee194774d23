package contract

import (
	"context"

	"talentscout-be/internal/entity"
)

type ConversationMessageRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	// FindByCandidateId returns the latest limit messages, oldest first.
	// limit <= 0 means all.
	FindByCandidateId(ctx context.Context, candidateId string, limit int) ([]*entity.ConversationMessage, error)
	DeleteByCandidateId(ctx context.Context, candidateId string) error
	DeleteByCandidateIds(ctx context.Context, candidateIds []string) error
	// SearchSimilar ranks embedded messages of one candidate by cosine distance.
	SearchSimilar(ctx context.Context, candidateId string, embedding []float32, limit int) ([]*entity.ConversationMatch, error)
}
