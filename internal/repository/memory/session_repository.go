package memory

import (
	"time"

	"talentscout-be/pkg/screening"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live screening sessions in process memory. A
// session idle for longer than the TTL is evicted; its record, if any, is
// already in the candidate store.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

// Save stores the session and restarts its idle timer.
func (r *SessionRepository) Save(session *screening.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*screening.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*screening.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// OnEvicted runs fn for sessions that expire or are deleted.
func (r *SessionRepository) OnEvicted(fn func(sessionID string, session *screening.Session)) {
	r.cache.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*screening.Session); ok {
			fn(key, s)
		}
	})
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
