package recall

import (
	"context"
	"errors"
	"testing"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fakeSearcher struct {
	matches []*entity.ConversationMatch
	k       int
}

func (f *fakeSearcher) SearchConversation(_ context.Context, _ string, _ []float32, k int) ([]*entity.ConversationMatch, error) {
	f.k = k
	return f.matches, nil
}

func unitVector() []float32 {
	v := make([]float32, embedding.Dimensions)
	v[0] = 1
	return v
}

func TestRetriever_NilIsDisabled(t *testing.T) {
	r := NewRetriever(nil, &fakeSearcher{}, DefaultConfig(), logger.NewNopLogger())
	assert.Nil(t, r)
	assert.False(t, r.Enabled())
	assert.Nil(t, r.Embed(context.Background(), "hello"))

	lines, err := r.Query(context.Background(), "candidate_x", "what did i say", 3)
	assert.NoError(t, err)
	assert.Nil(t, lines)
}

func TestRetriever_QueryFiltersByDistance(t *testing.T) {
	searcher := &fakeSearcher{matches: []*entity.ConversationMatch{
		{Message: &entity.ConversationMessage{Role: "user", Content: "asha@x.com"}, Distance: 0.1},
		{Message: &entity.ConversationMessage{Role: "assistant", Content: "Great, thanks!"}, Distance: 0.9},
	}}
	r := NewRetriever(fakeEmbedder{vec: unitVector()}, searcher, Config{TopK: 4, MaxDistance: 0.5}, logger.NewNopLogger())
	require.True(t, r.Enabled())

	lines, err := r.Query(context.Background(), "candidate_x", "what was my email?", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"user: asha@x.com"}, lines)
	assert.Equal(t, 4, searcher.k)
}

func TestRetriever_Embed(t *testing.T) {
	ctx := context.Background()

	ok := NewRetriever(fakeEmbedder{vec: unitVector()}, &fakeSearcher{}, DefaultConfig(), logger.NewNopLogger())
	assert.Len(t, ok.Embed(ctx, "I use Go"), embedding.Dimensions)
	assert.Nil(t, ok.Embed(ctx, "   "))

	wrongDims := NewRetriever(fakeEmbedder{vec: []float32{1, 0}}, &fakeSearcher{}, DefaultConfig(), logger.NewNopLogger())
	assert.Nil(t, wrongDims.Embed(ctx, "I use Go"))

	failing := NewRetriever(fakeEmbedder{err: errors.New("timeout")}, &fakeSearcher{}, DefaultConfig(), logger.NewNopLogger())
	assert.Nil(t, failing.Embed(ctx, "I use Go"))

	_, err := failing.Query(ctx, "candidate_x", "what did i say", 1)
	assert.Error(t, err)
}
