package mapper

import (
	"talentscout-be/internal/entity"
	"talentscout-be/internal/model"
)

type AuditEventMapper struct{}

func NewAuditEventMapper() *AuditEventMapper {
	return &AuditEventMapper{}
}

func (m *AuditEventMapper) ToEntity(e *model.AuditEvent) *entity.AuditEvent {
	if e == nil {
		return nil
	}
	return &entity.AuditEvent{
		Id:          e.Id,
		Timestamp:   e.Timestamp,
		EventType:   e.EventType,
		CandidateId: e.CandidateId,
		Details:     e.Details,
	}
}

func (m *AuditEventMapper) ToModel(e *entity.AuditEvent) *model.AuditEvent {
	if e == nil {
		return nil
	}
	return &model.AuditEvent{
		Id:          e.Id,
		Timestamp:   e.Timestamp,
		EventType:   e.EventType,
		CandidateId: e.CandidateId,
		Details:     e.Details,
	}
}

func (m *AuditEventMapper) ToEntities(events []*model.AuditEvent) []*entity.AuditEvent {
	entities := make([]*entity.AuditEvent, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
