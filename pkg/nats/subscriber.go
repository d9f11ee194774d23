package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talentscout-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// MessageHandler receives the subject relative to the stream prefix and the
// raw payload.
type MessageHandler func(ctx context.Context, subject string, data []byte) error

// AuditHandler receives decoded audit fan-out events.
type AuditHandler func(ctx context.Context, event events.AuditRecorded) error

// errUndecodable makes the consumer terminate a message instead of retrying.
var errUndecodable = errors.New("undecodable payload")

// Subscriber reads events back from the stream with durable consumers.
type Subscriber struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	consumes []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches handler to pattern (for example "audit.>"). A handler
// error naks the message for redelivery, up to five deliveries.
func (s *Subscriber) Subscribe(ctx context.Context, pattern, durableName string, handler MessageHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subjectPrefix + pattern,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", durableName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		err := handler(ctx, strings.TrimPrefix(msg.Subject(), subjectPrefix), msg.Data())
		switch {
		case err == nil:
			_ = msg.Ack()
		case errors.Is(err, errUndecodable):
			_ = msg.Term()
		default:
			_ = msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", durableName, err)
	}
	s.consumes = append(s.consumes, cc)
	return nil
}

// SubscribeAudit is Subscribe for the audit fan-out. Payloads that do not
// decode are terminated.
func (s *Subscriber) SubscribeAudit(ctx context.Context, pattern, durableName string, handler AuditHandler) error {
	return s.Subscribe(ctx, pattern, durableName, func(ctx context.Context, subject string, data []byte) error {
		event, err := events.DecodeAuditRecorded(data)
		if err != nil {
			return errUndecodable
		}
		if i := strings.LastIndex(subject, "."); i > 0 {
			event.Prefix = subject[:i]
		}
		return handler(ctx, event)
	})
}

func (s *Subscriber) Close() {
	for _, cc := range s.consumes {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
