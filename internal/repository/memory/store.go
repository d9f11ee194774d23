package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/repository/contract"
	"talentscout-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is a process-local stand-in for Postgres, used in development when no
// DB_CONNECTION_STRING is set and by tests. Every repository call is atomic;
// Begin/Commit/Rollback only track state, nothing is rolled back.
type Store struct {
	mu         sync.RWMutex
	candidates map[string]*entity.Candidate
	audit      []*entity.AuditEvent
	auditSeq   int64
	messages   []*entity.ConversationMessage
}

func NewStore() *Store {
	return &Store{
		candidates: make(map[string]*entity.Candidate),
	}
}

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store *Store
	inTx  bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return errTxStarted
	}
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return errNoTx
	}
	u.inTx = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return errNoTx
	}
	u.inTx = false
	return nil
}

func (u *unitOfWork) CandidateRepository() contract.CandidateRepository {
	return &candidateRepository{store: u.store}
}

func (u *unitOfWork) AuditEventRepository() contract.AuditEventRepository {
	return &auditEventRepository{store: u.store}
}

func (u *unitOfWork) ConversationMessageRepository() contract.ConversationMessageRepository {
	return &conversationMessageRepository{store: u.store}
}

// --- candidates ---

type candidateRepository struct {
	store *Store
}

func (r *candidateRepository) CreateIfAbsent(_ context.Context, candidate *entity.Candidate) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.candidates[candidate.CandidateId]; exists {
		return false, nil
	}
	stored := candidate.Clone()
	now := time.Now().UTC()
	stored.UpdatedAt = &now
	r.store.candidates[candidate.CandidateId] = stored
	return true, nil
}

func (r *candidateRepository) Update(_ context.Context, candidate *entity.Candidate) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.candidates[candidate.CandidateId]
	if !ok {
		return false, nil
	}
	updated := candidate.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.RetentionUntil = existing.RetentionUntil
	updated.ConsentGiven = existing.ConsentGiven
	updated.ConsentTimestamp = existing.ConsentTimestamp
	now := time.Now().UTC()
	updated.UpdatedAt = &now
	r.store.candidates[candidate.CandidateId] = updated
	return true, nil
}

// FindForUpdate takes no lock; the store mutex already serializes writes.
func (r *candidateRepository) FindForUpdate(ctx context.Context, candidateId string) (*entity.Candidate, error) {
	return r.FindByCandidateId(ctx, candidateId)
}

func (r *candidateRepository) FindByCandidateId(_ context.Context, candidateId string) (*entity.Candidate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.candidates[candidateId]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *candidateRepository) sorted() []*entity.Candidate {
	all := make([]*entity.Candidate, 0, len(r.store.candidates))
	for _, c := range r.store.candidates {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CandidateId < all[j].CandidateId
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

func (r *candidateRepository) FindAll(_ context.Context, limit, offset int) ([]*entity.Candidate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.sorted()
	// newest first, like the SQL implementation
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	all = paginate(all, limit, offset)

	out := make([]*entity.Candidate, len(all))
	for i, c := range all {
		out[i] = c.Clone()
	}
	return out, nil
}

func (r *candidateRepository) ListIds(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.sorted()
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.CandidateId
	}
	return ids, nil
}

func (r *candidateRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.candidates)), nil
}

func (r *candidateRepository) DeleteByCandidateId(_ context.Context, candidateId string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.candidates[candidateId]; !ok {
		return false, nil
	}
	delete(r.store.candidates, candidateId)
	return true, nil
}

func (r *candidateRepository) DeleteRetentionExpired(_ context.Context, now time.Time) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed []string
	for id, c := range r.store.candidates {
		if c.RetentionUntil.Before(now) {
			removed = append(removed, id)
			delete(r.store.candidates, id)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// --- audit ---

type auditEventRepository struct {
	store *Store
}

func (r *auditEventRepository) Create(_ context.Context, event *entity.AuditEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.auditSeq++
	stored := *event
	stored.Id = r.store.auditSeq
	r.store.audit = append(r.store.audit, &stored)
	event.Id = stored.Id
	return nil
}

func (r *auditEventRepository) FindAll(_ context.Context, candidateId string, limit, offset int) ([]*entity.AuditEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*entity.AuditEvent
	for _, e := range r.store.audit {
		if candidateId == "" || e.CandidateId == candidateId {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	return paginate(matched, limit, offset), nil
}

// --- conversation ---

type conversationMessageRepository struct {
	store *Store
}

func (r *conversationMessageRepository) Create(_ context.Context, message *entity.ConversationMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	stored := *message
	stored.Embedding = append([]float32(nil), message.Embedding...)
	r.store.messages = append(r.store.messages, &stored)
	return nil
}

func (r *conversationMessageRepository) FindByCandidateId(_ context.Context, candidateId string, limit int) ([]*entity.ConversationMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.ConversationMessage
	for _, m := range r.store.messages {
		if m.CandidateId == candidateId {
			cp := *m
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *conversationMessageRepository) DeleteByCandidateId(ctx context.Context, candidateId string) error {
	return r.DeleteByCandidateIds(ctx, []string{candidateId})
}

func (r *conversationMessageRepository) DeleteByCandidateIds(_ context.Context, candidateIds []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	drop := make(map[string]struct{}, len(candidateIds))
	for _, id := range candidateIds {
		drop[id] = struct{}{}
	}
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if _, ok := drop[m.CandidateId]; !ok {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *conversationMessageRepository) SearchSimilar(_ context.Context, candidateId string, embedding []float32, limit int) ([]*entity.ConversationMatch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matches []*entity.ConversationMatch
	for _, m := range r.store.messages {
		if m.CandidateId != candidateId || len(m.Embedding) == 0 {
			continue
		}
		cp := *m
		matches = append(matches, &entity.ConversationMatch{
			Message:  &cp,
			Distance: cosineDistance(embedding, m.Embedding),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return paginate(matches, limit, 0), nil
}

func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
