package mapper

import (
	"time"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/model"

	"gorm.io/datatypes"
)

type CandidateMapper struct{}

func NewCandidateMapper() *CandidateMapper {
	return &CandidateMapper{}
}

func (m *CandidateMapper) ToEntity(c *model.Candidate) *entity.Candidate {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	answers := make([]entity.CandidateAnswer, len(c.Answers))
	for i, a := range c.Answers {
		answers[i] = entity.CandidateAnswer{
			Question:   a.Question,
			Answer:     a.Answer,
			Evaluation: a.Evaluation,
		}
	}

	return &entity.Candidate{
		CandidateId:        c.CandidateId,
		FullName:           c.FullName,
		Email:              c.Email,
		Phone:              c.Phone,
		YearsExperience:    c.YearsExperience,
		DesiredPosition:    c.DesiredPosition,
		CurrentLocation:    c.CurrentLocation,
		TechStack:          append([]string{}, c.TechStack...),
		TechnicalQuestions: append([]string{}, c.TechnicalQuestions...),
		Answers:            answers,
		ConsentGiven:       c.ConsentGiven,
		ConsentTimestamp:   c.ConsentTimestamp,
		CreatedAt:          c.CreatedAt,
		RetentionUntil:     c.RetentionUntil,
		UpdatedAt:          updatedAt,
	}
}

func (m *CandidateMapper) ToModel(c *entity.Candidate) *model.Candidate {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	answers := make(datatypes.JSONSlice[model.CandidateAnswerJSON], len(c.Answers))
	for i, a := range c.Answers {
		answers[i] = model.CandidateAnswerJSON{
			Question:   a.Question,
			Answer:     a.Answer,
			Evaluation: a.Evaluation,
		}
	}

	return &model.Candidate{
		CandidateId:        c.CandidateId,
		FullName:           c.FullName,
		Email:              c.Email,
		Phone:              c.Phone,
		YearsExperience:    c.YearsExperience,
		DesiredPosition:    c.DesiredPosition,
		CurrentLocation:    c.CurrentLocation,
		TechStack:          datatypes.JSONSlice[string](append([]string{}, c.TechStack...)),
		TechnicalQuestions: datatypes.JSONSlice[string](append([]string{}, c.TechnicalQuestions...)),
		Answers:            answers,
		ConsentGiven:       c.ConsentGiven,
		ConsentTimestamp:   c.ConsentTimestamp,
		CreatedAt:          c.CreatedAt,
		RetentionUntil:     c.RetentionUntil,
		UpdatedAt:          updatedAt,
	}
}

func (m *CandidateMapper) ToEntities(candidates []*model.Candidate) []*entity.Candidate {
	entities := make([]*entity.Candidate, len(candidates))
	for i, c := range candidates {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
