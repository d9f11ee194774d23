package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/repository/memory"
	"talentscout-be/pkg/audit"
	"talentscout-be/pkg/embedding"
	"talentscout-be/pkg/interview"
	"talentscout-be/pkg/recall"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/sessionlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type constantEmbedder struct{}

func (constantEmbedder) Embed(context.Context, string) ([]float32, error) {
	v := make([]float32, embedding.Dimensions)
	v[0] = 1
	return v, nil
}

type screeningFixture struct {
	*storeFixture
	svc       IScreeningService
	sessions  *memory.SessionRepository
	publisher *recordingPublisher
}

func newScreeningFixture(t *testing.T, withRecall bool) *screeningFixture {
	t.Helper()
	return buildScreeningFixture(t, withRecall, func(r screening.RecordStore) screening.RecordStore { return r })
}

// buildScreeningFixture lets a test wrap the record store the machine writes
// snapshots to.
func buildScreeningFixture(t *testing.T, withRecall bool, wrap func(screening.RecordStore) screening.RecordStore) *screeningFixture {
	t.Helper()
	store := newStoreFixture(t, 0)
	log := logger.NewNopLogger()

	var retriever *recall.Retriever
	if withRecall {
		retriever = recall.NewRetriever(constantEmbedder{}, store.svc, recall.Config{TopK: 2}, log)
	}

	f := &screeningFixture{
		storeFixture: store,
		sessions:     memory.NewSessionRepository(time.Hour),
		publisher:    &recordingPublisher{},
	}
	f.svc = NewScreeningService(ScreeningDeps{
		Machine:   screening.NewMachine(wrap(store.svc), interview.NewQuestionGenerator(nil, log), nil, log, 5),
		Sessions:  f.sessions,
		Store:     store.svc,
		Messenger: interview.NewMessenger(nil, "TalentScout", log),
		Retriever: retriever,
		Locker:    sessionlock.NewLocalLocker(),
		Publisher: f.publisher,
		Logger:    log,
	})
	return f
}

func (f *screeningFixture) send(t *testing.T, candidateId, text string) *dto.SendMessageResponse {
	t.Helper()
	res, err := f.svc.SendMessage(context.Background(), candidateId, &dto.SendMessageRequest{Message: text})
	require.NoError(t, err, text)
	return res
}

func TestScreening_AshaRaoEndToEnd(t *testing.T) {
	f := newScreeningFixture(t, false)
	ctx := context.Background()

	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	assert.Equal(t, "COLLECTING_NAME", start.Stage)
	assert.Len(t, start.Messages, 2)
	id := start.CandidateId

	for _, input := range []string{
		"Asha Rao", "asha@x.com", "+91 98765 43210", "4",
		"Backend Engineer", "Pune", "Python, Django, PostgreSQL",
	} {
		res := f.send(t, id, input)
		assert.False(t, res.Rejected, input)
	}

	state, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ASKING_QUESTIONS", state.Stage)
	assert.Equal(t, 5, state.QuestionCount)

	var last *dto.SendMessageResponse
	for i := 0; i < 5; i++ {
		last = f.send(t, id, fmt.Sprintf("Answer %d: I would profile first and then optimise the query.", i+1))
	}
	assert.True(t, last.Completed)
	assert.True(t, last.Ended)
	assert.Equal(t, "COMPLETED", last.Stage)
	assert.Contains(t, last.Messages[0], id)

	ids, err := f.storeFixture.svc.ListCandidateIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	record, err := f.storeFixture.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", record.FullName)
	assert.Equal(t, "4", record.YearsExperience)
	assert.Len(t, record.Answers, 5)
	assert.Equal(t, []string{string(audit.DataCreated), string(audit.DataAccessed)}, f.events(t, id))

	require.Len(t, f.publisher.payloads, 1)
	var msg dto.ScreeningCompletedMessage
	require.NoError(t, json.Unmarshal(f.publisher.payloads[0], &msg))
	assert.Equal(t, id, msg.CandidateId)

	history, err := f.svc.History(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1+2*12)
	assert.Equal(t, "Asha Rao", history[1].Content)
	assert.Equal(t, "COLLECTING_NAME", history[1].Stage)

	_, err = f.svc.SendMessage(ctx, id, &dto.SendMessageRequest{Message: "hello?"})
	assert.ErrorIs(t, err, screening.ErrSessionEnded)
}

func TestScreening_ExitBeforeNameStoresNothing(t *testing.T) {
	f := newScreeningFixture(t, false)
	ctx := context.Background()

	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)

	res := f.send(t, start.CandidateId, "exit")
	assert.True(t, res.Ended)
	assert.False(t, res.Completed)

	ids, err := f.storeFixture.svc.ListCandidateIds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	history, err := f.svc.History(ctx, start.CandidateId, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, f.events(t, start.CandidateId))
	assert.Empty(t, f.publisher.payloads)
}

func TestScreening_ExitAfterNameKeepsPartialRecord(t *testing.T) {
	f := newScreeningFixture(t, false)
	ctx := context.Background()

	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	f.send(t, start.CandidateId, "Asha Rao")
	res := f.send(t, start.CandidateId, "bye")
	assert.True(t, res.Ended)

	record, err := f.storeFixture.svc.Get(ctx, start.CandidateId)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", record.FullName)
	assert.Empty(t, record.Email)
	assert.Empty(t, f.publisher.payloads)
}

func TestScreening_StartRequiresConsent(t *testing.T) {
	f := newScreeningFixture(t, false)
	_, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: false})
	assert.ErrorIs(t, err, ErrConsentRequired)
	assert.Equal(t, 0, f.sessions.Count())
}

func TestScreening_UnknownSession(t *testing.T) {
	f := newScreeningFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, "candidate_missing", &dto.SendMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.GetSession(ctx, "candidate_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestScreening_EmptyInput(t *testing.T) {
	f := newScreeningFixture(t, false)
	start, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(context.Background(), start.CandidateId, &dto.SendMessageRequest{Message: "   "})
	assert.True(t, errors.Is(err, screening.ErrEmptyInput))
}

func TestScreening_RepeatedRejectionAddsFallback(t *testing.T) {
	f := newScreeningFixture(t, false)
	start, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	f.send(t, id, "Asha Rao")

	first := f.send(t, id, "not an email")
	assert.True(t, first.Rejected)
	assert.Len(t, first.Messages, 1)

	second := f.send(t, id, "still not an email")
	assert.True(t, second.Rejected)
	require.Len(t, second.Messages, 2)
	assert.Contains(t, second.Messages[1], "email address")

	ok := f.send(t, id, "asha@x.com")
	assert.False(t, ok.Rejected)
	assert.Equal(t, "COLLECTING_PHONE", ok.Stage)
}

func TestScreening_UpdateEarlierField(t *testing.T) {
	f := newScreeningFixture(t, false)
	start, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	for _, input := range []string{"Asha Rao", "asha@x.com", "9876543210"} {
		f.send(t, id, input)
	}

	res := f.send(t, id, "please change my email to asha.rao@x.com")
	assert.Equal(t, "email", res.UpdatedField)
	assert.Equal(t, "COLLECTING_EXPERIENCE", res.Stage)

	record, err := f.storeFixture.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "asha.rao@x.com", record.Email)
}

func TestScreening_RecallAnswersFromTranscript(t *testing.T) {
	f := newScreeningFixture(t, true)
	start, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	f.send(t, id, "Asha Rao")

	res := f.send(t, id, "what did I say my name was?")
	assert.True(t, res.Recalled)
	assert.Equal(t, "COLLECTING_EMAIL", res.Stage)
	require.Len(t, res.Messages, 2)
	assert.Contains(t, res.Messages[0], "from earlier in our conversation")
	assert.Contains(t, res.Messages[1], "email address")

	state, err := f.svc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "COLLECTING_EMAIL", state.Stage)
}

func TestScreening_EvictedUnsavedSessionDropsTranscript(t *testing.T) {
	f := newScreeningFixture(t, false)
	ctx := context.Background()
	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)

	history, err := f.svc.History(ctx, start.CandidateId, 0)
	require.NoError(t, err)
	require.NotEmpty(t, history)

	f.sessions.Delete(start.CandidateId)

	history, err = f.svc.History(ctx, start.CandidateId, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestScreening_ConcurrentMessagesAreSerialized(t *testing.T) {
	f := newScreeningFixture(t, false)
	start, err := f.svc.StartSession(context.Background(), &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	f.send(t, id, "Asha Rao")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.SendMessage(context.Background(), id, &dto.SendMessageRequest{Message: fmt.Sprintf("bad email %d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := f.svc.History(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1+2+2*8)
}

// outageStore refuses snapshots while down is set.
type outageStore struct {
	screening.RecordStore
	down atomic.Bool
}

func (o *outageStore) Upsert(ctx context.Context, candidateId string, record *entity.Candidate) error {
	if o.down.Load() {
		return &PersistenceError{CandidateId: candidateId, Op: "upsert", Err: errors.New("connection refused")}
	}
	return o.RecordStore.Upsert(ctx, candidateId, record)
}

func TestScreening_FailedExitSaveIsRetried(t *testing.T) {
	outage := &outageStore{}
	f := buildScreeningFixture(t, false, func(r screening.RecordStore) screening.RecordStore {
		outage.RecordStore = r
		return outage
	})
	ctx := context.Background()
	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	f.send(t, id, "Asha Rao")

	outage.down.Store(true)
	res := f.send(t, id, "bye")
	assert.True(t, res.Ended)
	assert.NotEmpty(t, res.Warning)

	state, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, state.SavePending)

	record, err := f.storeFixture.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, record)
	history, err := f.svc.History(ctx, id, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	outage.down.Store(false)
	res = f.send(t, id, "are you there?")
	assert.Empty(t, res.Warning)
	assert.True(t, res.Ended)

	record, err = f.storeFixture.svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Asha Rao", record.FullName)

	_, err = f.svc.SendMessage(ctx, id, &dto.SendMessageRequest{Message: "hello?"})
	assert.ErrorIs(t, err, screening.ErrSessionEnded)
}

func TestScreening_FailedCompletionPublishesAfterResave(t *testing.T) {
	outage := &outageStore{}
	f := buildScreeningFixture(t, false, func(r screening.RecordStore) screening.RecordStore {
		outage.RecordStore = r
		return outage
	})
	ctx := context.Background()
	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	for _, input := range []string{"Asha Rao", "asha@x.com", "9876543210", "4", "Backend Engineer", "Pune", "Go, Postgres"} {
		f.send(t, id, input)
	}

	outage.down.Store(true)
	var last *dto.SendMessageResponse
	for i := 0; i < 5; i++ {
		last = f.send(t, id, fmt.Sprintf("Answer %d", i+1))
	}
	require.True(t, last.Completed)
	assert.NotEmpty(t, last.Warning)
	assert.Empty(t, f.publisher.payloads)

	outage.down.Store(false)
	res := f.send(t, id, "retry")
	assert.True(t, res.Completed)
	require.Len(t, f.publisher.payloads, 1)

	record, err := f.storeFixture.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, record.Answers, 5)
}

func TestScreening_EvictionResavesPendingRecord(t *testing.T) {
	outage := &outageStore{}
	f := buildScreeningFixture(t, false, func(r screening.RecordStore) screening.RecordStore {
		outage.RecordStore = r
		return outage
	})
	ctx := context.Background()
	start, err := f.svc.StartSession(ctx, &dto.StartSessionRequest{Consent: true})
	require.NoError(t, err)
	id := start.CandidateId
	f.send(t, id, "Asha Rao")

	outage.down.Store(true)
	f.send(t, id, "exit")
	outage.down.Store(false)

	f.sessions.Delete(id)

	record, err := f.storeFixture.svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Asha Rao", record.FullName)
}
