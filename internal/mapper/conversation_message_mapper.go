package mapper

import (
	"talentscout-be/internal/entity"
	"talentscout-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ConversationMessageMapper struct{}

func NewConversationMessageMapper() *ConversationMessageMapper {
	return &ConversationMessageMapper{}
}

func (m *ConversationMessageMapper) ToEntity(c *model.ConversationMessage) *entity.ConversationMessage {
	if c == nil {
		return nil
	}
	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}
	return &entity.ConversationMessage{
		Id:          c.Id,
		CandidateId: c.CandidateId,
		Role:        c.Role,
		Content:     c.Content,
		Stage:       c.Stage,
		Embedding:   embedding,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ConversationMessageMapper) ToModel(c *entity.ConversationMessage) *model.ConversationMessage {
	if c == nil {
		return nil
	}
	var embedding *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}
	return &model.ConversationMessage{
		Id:          c.Id,
		CandidateId: c.CandidateId,
		Role:        c.Role,
		Content:     c.Content,
		Stage:       c.Stage,
		Embedding:   embedding,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ConversationMessageMapper) ToEntities(messages []*model.ConversationMessage) []*entity.ConversationMessage {
	entities := make([]*entity.ConversationMessage, len(messages))
	for i, c := range messages {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
