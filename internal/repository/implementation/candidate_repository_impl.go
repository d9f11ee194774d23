package implementation

import (
	"context"
	"errors"
	"time"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/mapper"
	"talentscout-be/internal/model"
	"talentscout-be/internal/repository/contract"
	"talentscout-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CandidateMapper
}

func NewCandidateRepository(db *gorm.DB) contract.CandidateRepository {
	return &CandidateRepositoryImpl{
		db:     db,
		mapper: mapper.NewCandidateMapper(),
	}
}

func (r *CandidateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CandidateRepositoryImpl) CreateIfAbsent(ctx context.Context, candidate *entity.Candidate) (bool, error) {
	m := r.mapper.ToModel(candidate)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "candidate_id"}}, DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Update rewrites the collected fields. Lifecycle columns (created_at,
// retention_until, consent_*) are never touched here.
func (r *CandidateRepositoryImpl) Update(ctx context.Context, candidate *entity.Candidate) (bool, error) {
	m := r.mapper.ToModel(candidate)
	res := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Candidate{}), specification.ByCandidateId{CandidateId: m.CandidateId}).
		Select(
			"full_name", "email", "phone", "years_experience", "desired_position",
			"current_location", "tech_stack", "technical_questions", "answers", "updated_at",
		).
		Updates(map[string]interface{}{
			"full_name":           m.FullName,
			"email":               m.Email,
			"phone":               m.Phone,
			"years_experience":    m.YearsExperience,
			"desired_position":    m.DesiredPosition,
			"current_location":    m.CurrentLocation,
			"tech_stack":          m.TechStack,
			"technical_questions": m.TechnicalQuestions,
			"answers":             m.Answers,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CandidateRepositoryImpl) FindByCandidateId(ctx context.Context, candidateId string) (*entity.Candidate, error) {
	return r.first(r.db.WithContext(ctx), candidateId)
}

func (r *CandidateRepositoryImpl) FindForUpdate(ctx context.Context, candidateId string) (*entity.Candidate, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), candidateId)
}

func (r *CandidateRepositoryImpl) first(db *gorm.DB, candidateId string) (*entity.Candidate, error) {
	var m model.Candidate
	query := r.applySpecifications(db, specification.ByCandidateId{CandidateId: candidateId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CandidateRepositoryImpl) FindAll(ctx context.Context, limit, offset int) ([]*entity.Candidate, error) {
	var models []*model.Candidate
	specs := []specification.Specification{specification.OrderBy{Field: "created_at", Desc: true}}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CandidateRepositoryImpl) ListIds(ctx context.Context) ([]string, error) {
	var ids []string
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Candidate{}), specification.OrderBy{Field: "created_at"})
	if err := query.Pluck("candidate_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *CandidateRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CandidateRepositoryImpl) DeleteByCandidateId(ctx context.Context, candidateId string) (bool, error) {
	res := r.applySpecifications(r.db.WithContext(ctx), specification.ByCandidateId{CandidateId: candidateId}).
		Delete(&model.Candidate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteRetentionExpired is a single DELETE ... RETURNING, so concurrent
// sweeps never report the same row twice.
func (r *CandidateRepositoryImpl) DeleteRetentionExpired(ctx context.Context, now time.Time) ([]string, error) {
	var removed []model.Candidate
	res := r.applySpecifications(r.db.WithContext(ctx), specification.RetentionExpiredBefore{At: now}).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "candidate_id"}}}).
		Delete(&removed)
	if res.Error != nil {
		return nil, res.Error
	}
	ids := make([]string, 0, len(removed))
	for _, m := range removed {
		ids = append(ids, m.CandidateId)
	}
	return ids, nil
}
