package service

import (
	"context"
	"encoding/json"
	"errors"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

// AnswerEvaluator grades a single answer against the candidate's stack.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question, answer string, techStack []string) (string, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// evaluationConsumer handles screening-completed messages: it grades the
// answers off the request path and sends the confirmation mail.
type evaluationConsumer struct {
	subscriber message.Subscriber
	topicName  string
	store      ICandidateStoreService
	evaluator  AnswerEvaluator
	mail       mailer.IEmailService
	logger     logger.ILogger
}

func NewEvaluationConsumer(
	subscriber message.Subscriber,
	topicName string,
	store ICandidateStoreService,
	evaluator AnswerEvaluator,
	mail mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &evaluationConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		store:      store,
		evaluator:  evaluator,
		mail:       mail,
		logger:     log,
	}
}

func (cs *evaluationConsumer) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *evaluationConsumer) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ScreeningCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.CandidateId == "" {
		cs.logger.Error("EVALUATION", "Dropping malformed screening message", map[string]interface{}{
			"message_id": msg.UUID,
		})
		msg.Ack()
		return
	}

	candidate, err := cs.store.Get(ctx, payload.CandidateId)
	if err != nil {
		cs.logger.Error("EVALUATION", "Failed to load candidate", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}
	if candidate == nil {
		// Erased between completion and delivery.
		msg.Ack()
		return
	}

	if cs.evaluator != nil && len(candidate.Answers) > 0 {
		evaluations := make([]string, len(candidate.Answers))
		graded := 0
		for i, a := range candidate.Answers {
			if a.Evaluation != "" {
				continue
			}
			out, err := cs.evaluator.Evaluate(ctx, a.Question, a.Answer, candidate.TechStack)
			if err != nil {
				continue
			}
			evaluations[i] = out
			graded++
		}

		if graded > 0 {
			if err := cs.store.AttachEvaluations(ctx, payload.CandidateId, evaluations); err != nil {
				if errors.Is(err, ErrCandidateNotFound) {
					msg.Ack()
					return
				}
				cs.logger.Error("EVALUATION", "Failed to store evaluations", map[string]interface{}{
					"candidate_id": payload.CandidateId,
					"error":        err.Error(),
				})
				msg.Nack()
				return
			}
		}
		cs.logger.Info("EVALUATION", "Answers evaluated", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"graded":       graded,
			"answers":      len(candidate.Answers),
		})
	}

	if cs.mail != nil && candidate.Email != "" {
		// Mail failures are logged by the mailer and not retried.
		_ = cs.mail.SendScreeningConfirmation(candidate.Email, candidate.FullName, candidate.CandidateId)
	}

	msg.Ack()
}
