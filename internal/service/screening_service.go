package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/repository/memory"
	"talentscout-be/internal/tracer"
	"talentscout-be/pkg/interview"
	"talentscout-be/pkg/recall"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/sessionlock"

	"go.opentelemetry.io/otel/attribute"
)

// fallbackAfter is the number of consecutive rejections at one stage after
// which the reply also carries a generated clarification.
const fallbackAfter = 2

type IScreeningService interface {
	StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	SendMessage(ctx context.Context, candidateId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetSession(ctx context.Context, candidateId string) (*dto.SessionStateResponse, error)
	History(ctx context.Context, candidateId string, limit int) ([]*dto.ConversationMessageResponse, error)
}

type ScreeningDeps struct {
	Machine     *screening.Machine
	Sessions    *memory.SessionRepository
	Store       ICandidateStoreService
	Messenger   *interview.Messenger
	Retriever   *recall.Retriever
	Locker      sessionlock.Locker
	Publisher   IPublisherService
	Logger      logger.ILogger
	LockTimeout time.Duration
}

type screeningService struct {
	machine     *screening.Machine
	sessions    *memory.SessionRepository
	store       ICandidateStoreService
	messenger   *interview.Messenger
	retriever   *recall.Retriever
	locker      sessionlock.Locker
	publisher   IPublisherService
	logger      logger.ILogger
	lockTimeout time.Duration
	now         func() time.Time
}

func NewScreeningService(deps ScreeningDeps) IScreeningService {
	if deps.Locker == nil {
		deps.Locker = sessionlock.NewLocalLocker()
	}
	if deps.LockTimeout <= 0 {
		deps.LockTimeout = 30 * time.Second
	}
	s := &screeningService{
		machine:     deps.Machine,
		sessions:    deps.Sessions,
		store:       deps.Store,
		messenger:   deps.Messenger,
		retriever:   deps.Retriever,
		locker:      deps.Locker,
		publisher:   deps.Publisher,
		logger:      deps.Logger,
		lockTimeout: deps.LockTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
	deps.Sessions.OnEvicted(s.onSessionEvicted)
	return s
}

func (s *screeningService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	if req == nil || !req.Consent {
		return nil, ErrConsentRequired
	}

	session := screening.NewSession(s.now())
	ctx, span := tracer.Start(ctx, "screening.StartSession", session.ID)
	defer span.End()

	reply := s.machine.Start(ctx, session)
	s.record(ctx, session, screening.StageGreeting, "", reply.Messages)
	s.sessions.Save(session)

	s.logger.Info("SCREENING", "Session started", map[string]interface{}{
		"candidate_id": session.ID,
	})
	return &dto.StartSessionResponse{
		CandidateId: session.ID,
		Stage:       reply.Stage.String(),
		Messages:    reply.Messages,
	}, nil
}

// SendMessage runs one candidate input through recall, then the state
// machine. Calls for the same candidate are serialized.
func (s *screeningService) SendMessage(ctx context.Context, candidateId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	ctx, span := tracer.Start(ctx, "screening.SendMessage", candidateId)
	defer span.End()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	unlock, err := s.locker.Lock(lockCtx, candidateId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, ok := s.sessions.Get(candidateId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Ended && !session.SavePending {
		return nil, screening.ErrSessionEnded
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, screening.ErrEmptyInput
	}

	stage := session.Stage
	if !session.Ended && s.retriever.Enabled() && s.messenger != nil && stage > screening.StageGreeting && s.machine.Detector().IsRecallQuestion(text) {
		messages := []string{s.answerRecall(ctx, session, text)}
		if prompt := screening.PromptFor(session); prompt != "" {
			messages = append(messages, prompt)
		}
		s.record(ctx, session, stage, text, messages)
		s.sessions.Save(session)
		span.SetAttributes(attribute.Bool("screening.recall", true))
		return &dto.SendMessageResponse{
			CandidateId: session.ID,
			Stage:       session.Stage.String(),
			Messages:    messages,
			Recalled:    true,
		}, nil
	}

	reply, err := s.machine.Handle(ctx, session, text)
	if err != nil {
		return nil, err
	}

	messages := reply.Messages
	if reply.Rejection != nil && session.Rejections >= fallbackAfter && s.messenger != nil {
		messages = append(messages, s.messenger.Fallback(ctx, text, session.Stage))
	}
	s.record(ctx, session, stage, text, messages)

	if reply.Ended {
		s.finish(ctx, session, reply)
	}
	s.sessions.Save(session)

	span.SetAttributes(
		attribute.String("screening.stage", reply.Stage.String()),
		attribute.Bool("screening.ended", reply.Ended),
	)

	res := &dto.SendMessageResponse{
		CandidateId: session.ID,
		Stage:       reply.Stage.String(),
		Messages:    messages,
		Ended:       reply.Ended,
		Completed:   reply.Completed,
		Rejected:    reply.Rejection != nil,
	}
	if reply.UpdatedField != screening.FieldNone {
		res.UpdatedField = reply.UpdatedField.String()
	}
	if reply.Warning != nil {
		res.Warning = "Your answers are kept for this session but could not be saved yet. Please try again later."
	}
	return res, nil
}

func (s *screeningService) answerRecall(ctx context.Context, session *screening.Session, question string) string {
	lines, err := s.retriever.Query(ctx, session.ID, question, 0)
	if err != nil {
		s.logger.Warn("SCREENING", "Recall lookup failed", map[string]interface{}{
			"candidate_id": session.ID,
			"error":        err.Error(),
		})
	}
	return s.messenger.Recall(ctx, question, lines)
}

// finish wraps up an ended session. A session that never reached the store
// leaves no transcript behind. One whose final save failed is left as is
// until a resave succeeds.
func (s *screeningService) finish(ctx context.Context, session *screening.Session, reply screening.Reply) {
	if session.SavePending {
		return
	}
	if !session.Persisted {
		if _, err := s.store.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("SCREENING", "Failed to drop transcript of unsaved session", map[string]interface{}{
				"candidate_id": session.ID,
				"error":        err.Error(),
			})
		}
		return
	}

	if !reply.Completed || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.ScreeningCompletedMessage{
		CandidateId: session.ID,
		CompletedAt: s.now(),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("SCREENING", "Failed to publish screening completion", map[string]interface{}{
			"candidate_id": session.ID,
			"error":        err.Error(),
		})
	}
}

// record keeps the turn in the session's rolling context and appends it to
// the stored transcript. Transcript failures are logged only.
func (s *screeningService) record(ctx context.Context, session *screening.Session, stage screening.Stage, userText string, replies []string) {
	assistantText := strings.Join(replies, "\n\n")
	if userText != "" {
		session.Remember(entity.MessageRoleUser, userText)
	}
	if assistantText != "" {
		session.Remember(entity.MessageRoleAssistant, assistantText)
	}

	for _, turn := range []struct{ role, content string }{
		{entity.MessageRoleUser, userText},
		{entity.MessageRoleAssistant, assistantText},
	} {
		if turn.content == "" {
			continue
		}
		msg := &entity.ConversationMessage{
			CandidateId: session.ID,
			Role:        turn.role,
			Content:     turn.content,
			Stage:       stage.String(),
			Embedding:   s.retriever.Embed(ctx, turn.content),
		}
		if err := s.store.StoreConversationMessage(ctx, msg); err != nil {
			s.logger.Warn("SCREENING", "Failed to store conversation message", map[string]interface{}{
				"candidate_id": session.ID,
				"role":         turn.role,
				"error":        err.Error(),
			})
		}
	}
}

// onSessionEvicted makes a last attempt at a refused snapshot, then drops the
// transcript of a session that never reached the store.
func (s *screeningService) onSessionEvicted(candidateId string, session *screening.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if session.SavePending {
		reply := s.machine.Resave(ctx, session)
		if reply.Warning == nil {
			if session.Ended {
				s.finish(ctx, session, reply)
			}
			return
		}
		s.logger.Error("SCREENING", "Evicted session with an unsaved record", map[string]interface{}{
			"candidate_id": candidateId,
			"persisted":    session.Persisted,
			"error":        reply.Warning.Error(),
		})
	}
	if session.Persisted {
		return
	}
	if _, err := s.store.Delete(ctx, candidateId); err != nil {
		s.logger.Warn("SCREENING", "Failed to drop transcript of abandoned session", map[string]interface{}{
			"candidate_id": candidateId,
			"error":        err.Error(),
		})
	}
}

func (s *screeningService) GetSession(ctx context.Context, candidateId string) (*dto.SessionStateResponse, error) {
	session, ok := s.sessions.Get(candidateId)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &dto.SessionStateResponse{
		CandidateId:   session.ID,
		Stage:         session.Stage.String(),
		Ended:         session.Ended,
		SavePending:   session.SavePending,
		QuestionIndex: session.QuestionIndex,
		QuestionCount: len(session.Candidate.TechnicalQuestions),
		StartedAt:     session.StartedAt,
	}, nil
}

func (s *screeningService) History(ctx context.Context, candidateId string, limit int) ([]*dto.ConversationMessageResponse, error) {
	messages, err := s.store.ConversationHistory(ctx, candidateId, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ConversationMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ConversationMessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			Stage:     m.Stage,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}
