package service

import (
	"context"
	"time"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/logger"
)

// LogReader is implemented by logger.ZapLogger.
type LogReader interface {
	GetLogs(filter logger.LogFilter, limit, offset int) ([]logger.LogEntry, error)
}

// IAdminService backs the recruiter console. Nothing here returns PII.
type IAdminService interface {
	ListCandidates(ctx context.Context, page, limit int) (*dto.ListCandidatesResponse, error)
	AuditTrail(ctx context.Context, req dto.ListAuditEventsRequest) ([]*dto.AuditEventResponse, error)
	RunRetentionSweep(ctx context.Context) (*dto.RetentionSweepResponse, error)
	GetSystemLogs(ctx context.Context, page, limit int, filter logger.LogFilter) ([]logger.LogEntry, error)
}

type adminService struct {
	store  ICandidateStoreService
	logs   LogReader
	logger logger.ILogger
	now    func() time.Time
}

func NewAdminService(store ICandidateStoreService, logs LogReader, log logger.ILogger) IAdminService {
	return &adminService{
		store:  store,
		logs:   logs,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *adminService) ListCandidates(ctx context.Context, page, limit int) (*dto.ListCandidatesResponse, error) {
	if limit > 100 {
		limit = 100
	}
	return s.store.ListCandidates(ctx, page, limit)
}

func (s *adminService) AuditTrail(ctx context.Context, req dto.ListAuditEventsRequest) ([]*dto.AuditEventResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 50
	}
	return s.store.AuditTrail(ctx, req.CandidateId, req.Page, req.Limit)
}

func (s *adminService) RunRetentionSweep(ctx context.Context) (*dto.RetentionSweepResponse, error) {
	now := s.now()
	deleted, err := s.store.SweepExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ADMIN", "Manual retention sweep finished", map[string]interface{}{
		"deleted": deleted,
	})
	return &dto.RetentionSweepResponse{Deleted: deleted, RanAt: now}, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, filter logger.LogFilter) ([]logger.LogEntry, error) {
	if s.logs == nil {
		return []logger.LogEntry{}, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return s.logs.GetLogs(filter, limit, (page-1)*limit)
}
