package audit

import (
	"context"
	"fmt"
	"time"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/repository/unitofwork"
	"talentscout-be/pkg/events"
)

// Publisher fans recorded events out to other services. pkg/nats.Publisher
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Log is the append-only audit trail.
type Log struct {
	uowFactory    unitofwork.RepositoryFactory
	logger        logger.ILogger
	trail         logger.ILogger
	publisher     Publisher
	subjectPrefix string
	now           func() time.Time
}

type Option func(*Log)

// WithTrail mirrors every stored event to a dedicated log file.
func WithTrail(trail logger.ILogger) Option {
	return func(l *Log) { l.trail = trail }
}

// WithPublisher publishes every stored event as "<prefix>.<EVENT_TYPE>".
func WithPublisher(p Publisher, subjectPrefix string) Option {
	return func(l *Log) {
		l.publisher = p
		l.subjectPrefix = subjectPrefix
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func NewLog(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, opts ...Option) *Log {
	l := &Log{
		uowFactory:    uowFactory,
		logger:        log,
		subjectPrefix: "audit",
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends an event and swallows any failure after logging it.
func (l *Log) Record(ctx context.Context, eventType EventType, candidateId, details string) {
	if err := l.Append(ctx, eventType, candidateId, details); err != nil {
		l.logger.Error("AUDIT", "Audit event dropped", map[string]interface{}{
			"event_type":   string(eventType),
			"candidate_id": candidateId,
			"error":        err.Error(),
		})
	}
}

// Append stores one event. A storage failure comes back as *AuditWriteError.
// Fan-out failures are only logged.
func (l *Log) Append(ctx context.Context, eventType EventType, candidateId, details string) error {
	if !eventType.Valid() {
		return &AuditWriteError{EventType: eventType, CandidateId: candidateId, Err: fmt.Errorf("invalid event type")}
	}

	event := &entity.AuditEvent{
		Timestamp:   l.now(),
		EventType:   string(eventType),
		CandidateId: candidateId,
		Details:     details,
	}

	uow := l.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditEventRepository().Create(ctx, event); err != nil {
		return &AuditWriteError{EventType: eventType, CandidateId: candidateId, Err: err}
	}

	if l.trail != nil {
		l.trail.Info("AUDIT", string(eventType), map[string]interface{}{
			"id":           event.Id,
			"candidate_id": candidateId,
			"details":      details,
		})
	}

	if l.publisher != nil {
		msg := events.AuditRecorded{
			Prefix:      l.subjectPrefix,
			Id:          event.Id,
			EventType:   string(eventType),
			CandidateId: candidateId,
			Details:     details,
			Timestamp:   event.Timestamp,
		}
		if err := l.publisher.Publish(ctx, msg); err != nil {
			l.logger.Warn("AUDIT", "Audit fan-out failed", map[string]interface{}{
				"event_type": string(eventType),
				"error":      err.Error(),
			})
		}
	}
	return nil
}

// Query returns events in insertion order; an empty candidateId returns all.
func (l *Log) Query(ctx context.Context, candidateId string) ([]*entity.AuditEvent, error) {
	return l.QueryPage(ctx, candidateId, 0, 0)
}

func (l *Log) QueryPage(ctx context.Context, candidateId string, limit, offset int) ([]*entity.AuditEvent, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.AuditEventRepository().FindAll(ctx, candidateId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return found, nil
}
