package contract

import (
	"context"
	"time"

	"talentscout-be/internal/entity"
)

// CandidateRepository stores candidate rows exactly as given; field sealing
// is the caller's job.
type CandidateRepository interface {
	// CreateIfAbsent inserts the row unless the id already exists and reports
	// whether it inserted.
	CreateIfAbsent(ctx context.Context, candidate *entity.Candidate) (bool, error)
	// Update reports false when no row matched.
	Update(ctx context.Context, candidate *entity.Candidate) (bool, error)
	FindByCandidateId(ctx context.Context, candidateId string) (*entity.Candidate, error)
	// FindForUpdate is FindByCandidateId holding a row lock until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, candidateId string) (*entity.Candidate, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Candidate, error)
	ListIds(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	// DeleteByCandidateId hard-deletes and reports whether a row went away.
	DeleteByCandidateId(ctx context.Context, candidateId string) (bool, error)
	// DeleteRetentionExpired removes rows with retention_until < now and
	// returns the removed ids.
	DeleteRetentionExpired(ctx context.Context, now time.Time) ([]string, error)
}
