package implementation

import (
	"context"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/mapper"
	"talentscout-be/internal/model"
	"talentscout-be/internal/repository/contract"
	"talentscout-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuditEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditEventMapper
}

func NewAuditEventRepository(db *gorm.DB) contract.AuditEventRepository {
	return &AuditEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditEventMapper(),
	}
}

func (r *AuditEventRepositoryImpl) Create(ctx context.Context, event *entity.AuditEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	event.Id = m.Id
	return nil
}

func (r *AuditEventRepositoryImpl) FindAll(ctx context.Context, candidateId string, limit, offset int) ([]*entity.AuditEvent, error) {
	specs := []specification.Specification{specification.OrderBy{Field: "id"}}
	if candidateId != "" {
		specs = append(specs, specification.ByCandidateId{CandidateId: candidateId})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	var models []*model.AuditEvent
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
