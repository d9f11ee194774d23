package memory

import (
	"testing"
	"time"

	"talentscout-be/pkg/screening"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	s := screening.NewSession(time.Now())

	repo.Save(s)
	got, ok := repo.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	var evicted []string
	repo.OnEvicted(func(id string, _ *screening.Session) { evicted = append(evicted, id) })
	repo.Delete(s.ID)

	_, ok = repo.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{s.ID}, evicted)
}
