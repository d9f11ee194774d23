package implementation

import (
	"context"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/mapper"
	"talentscout-be/internal/model"
	"talentscout-be/internal/repository/contract"
	"talentscout-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ConversationMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMessageMapper
}

func NewConversationMessageRepository(db *gorm.DB) contract.ConversationMessageRepository {
	return &ConversationMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMessageMapper(),
	}
}

func (r *ConversationMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationMessageRepositoryImpl) Create(ctx context.Context, message *entity.ConversationMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	message.Id = m.Id
	return nil
}

// FindByCandidateId returns the latest limit messages, oldest first. A limit
// <= 0 returns the whole transcript.
func (r *ConversationMessageRepositoryImpl) FindByCandidateId(ctx context.Context, candidateId string, limit int) ([]*entity.ConversationMessage, error) {
	specs := []specification.Specification{
		specification.ByCandidateId{CandidateId: candidateId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	}

	var models []*model.ConversationMessage
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) DeleteByCandidateId(ctx context.Context, candidateId string) error {
	return r.applySpecifications(r.db.WithContext(ctx), specification.ByCandidateId{CandidateId: candidateId}).
		Delete(&model.ConversationMessage{}).Error
}

func (r *ConversationMessageRepositoryImpl) DeleteByCandidateIds(ctx context.Context, candidateIds []string) error {
	if len(candidateIds) == 0 {
		return nil
	}
	return r.applySpecifications(r.db.WithContext(ctx), specification.ByCandidateIds{CandidateIds: candidateIds}).
		Delete(&model.ConversationMessage{}).Error
}

func (r *ConversationMessageRepositoryImpl) SearchSimilar(ctx context.Context, candidateId string, embedding []float32, limit int) ([]*entity.ConversationMatch, error) {
	type row struct {
		model.ConversationMessage
		Distance float64
	}

	queryVector := pgvector.NewVector(embedding)
	var rows []row
	err := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.ConversationMessage{}),
		specification.ByCandidateId{CandidateId: candidateId},
		specification.HasEmbedding{},
	).
		Select("conversation_messages.*, embedding <=> ? AS distance", queryVector).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]*entity.ConversationMatch, len(rows))
	for i := range rows {
		matches[i] = &entity.ConversationMatch{
			Message:  r.mapper.ToEntity(&rows[i].ConversationMessage),
			Distance: rows[i].Distance,
		}
	}
	return matches, nil
}
