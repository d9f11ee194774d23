package unitofwork

import (
	"context"

	"talentscout-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CandidateRepository() contract.CandidateRepository
	AuditEventRepository() contract.AuditEventRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
}
