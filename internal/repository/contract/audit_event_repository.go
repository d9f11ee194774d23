package contract

import (
	"context"

	"talentscout-be/internal/entity"
)

type AuditEventRepository interface {
	Create(ctx context.Context, event *entity.AuditEvent) error
	// FindAll returns events in insertion order. An empty candidateId matches
	// every event; limit <= 0 means no limit.
	FindAll(ctx context.Context, candidateId string, limit, offset int) ([]*entity.AuditEvent, error)
}
