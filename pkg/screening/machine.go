package screening

import (
	"context"
	"strings"
	"unicode/utf8"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
)

// RecordStore receives a snapshot of the candidate at every persist point.
type RecordStore interface {
	Upsert(ctx context.Context, candidateId string, record *entity.Candidate) error
}

// QuestionGenerator may return fewer than count questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, techStack []string, bucket ExperienceBucket, count int) ([]string, error)
}

// Narrator produces the free-form opening and closing lines.
type Narrator interface {
	Greeting(ctx context.Context) string
	Goodbye(ctx context.Context, name string) string
}

// Reply is the outcome of one input.
type Reply struct {
	Messages []string
	Stage    Stage
	// Ended is set once the session is over, by exit or completion.
	Ended bool
	// Completed is set only when the last question was answered (or none
	// could be generated).
	Completed    bool
	Rejection    *ValidationError
	UpdatedField Field
	// Warning carries a persist failure. The in-memory record is intact and
	// the messages were still produced.
	Warning error
}

type Machine struct {
	store        RecordStore
	questions    QuestionGenerator
	narrator     Narrator
	detector     *IntentDetector
	logger       logger.ILogger
	numQuestions int
}

func NewMachine(store RecordStore, questions QuestionGenerator, narrator Narrator, log logger.ILogger, numQuestions int) *Machine {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	return &Machine{
		store:        store,
		questions:    questions,
		narrator:     narrator,
		detector:     NewIntentDetector(),
		logger:       log,
		numQuestions: numQuestions,
	}
}

func (m *Machine) Detector() *IntentDetector {
	return m.detector
}

// Start greets the candidate and moves GREETING to COLLECTING_NAME. On any
// other stage it repeats the pending prompt.
func (m *Machine) Start(ctx context.Context, s *Session) Reply {
	if s.Stage != StageGreeting {
		return m.reply(s, PromptFor(s))
	}
	greeting := defaultGreeting
	if m.narrator != nil {
		if g := strings.TrimSpace(m.narrator.Greeting(ctx)); g != "" {
			greeting = g
		}
	}
	s.Stage = StageCollectingName
	return m.reply(s, greeting, promptName)
}

// Handle processes one candidate message. Exit intent is checked first, then
// update intent, then the current stage's rule. The only errors are
// ErrSessionEnded and ErrEmptyInput; everything else is in the Reply. Any
// input to an ended session whose final save failed retries that save.
func (m *Machine) Handle(ctx context.Context, s *Session, input string) (Reply, error) {
	text := strings.TrimSpace(input)
	if s.Ended || s.Stage == StageCompleted {
		if s.SavePending && text != "" {
			return m.Resave(ctx, s), nil
		}
		return Reply{Stage: s.Stage, Ended: true}, ErrSessionEnded
	}
	if text == "" {
		return Reply{Stage: s.Stage}, ErrEmptyInput
	}

	if m.detector.IsExit(text) {
		return m.exit(ctx, s), nil
	}

	if s.Stage == StageGreeting {
		return m.Start(ctx, s), nil
	}

	// Only fields the candidate has already passed can be revised; anything
	// else falls through so "my name is ..." still answers COLLECTING_NAME.
	if field, ok := m.detector.UpdateField(text); ok && field.CollectedAt() < s.Stage {
		return m.update(ctx, s, field, m.detector.ExtractUpdateValue(text)), nil
	}

	return m.advance(ctx, s, text), nil
}

func (m *Machine) exit(ctx context.Context, s *Session) Reply {
	var warning error
	if s.Candidate.FullName != "" {
		warning = m.persist(ctx, s, "exit")
	}

	goodbye := defaultGoodbye(s.Candidate.FullName)
	if m.narrator != nil {
		if g := strings.TrimSpace(m.narrator.Goodbye(ctx, s.Candidate.FullName)); g != "" {
			goodbye = g
		}
	}

	s.Stage = StageCompleted
	s.Ended = true
	r := m.reply(s, goodbye)
	r.Warning = warning
	return r
}

func (m *Machine) update(ctx context.Context, s *Session, field Field, value string) Reply {
	if msg, ok := checkField(field, value); !ok {
		r := m.reply(s, msg, PromptFor(s))
		r.Rejection = &ValidationError{Stage: s.Stage, Field: field, Message: msg}
		return r
	}

	field.apply(s.Candidate, value)
	warning := m.persist(ctx, s, "update:"+field.String())

	r := m.reply(s, updatedMessage(field, value), PromptFor(s))
	r.UpdatedField = field
	r.Warning = warning
	return r
}

// checkField applies the stage predicate of the field's collecting stage.
func checkField(field Field, value string) (string, bool) {
	switch field {
	case FieldFullName:
		return rejectName, value != ""
	case FieldEmail:
		return rejectEmail, ValidateEmail(value)
	case FieldPhone:
		return rejectPhone, ValidatePhone(value)
	case FieldDesiredPosition:
		return rejectPosition, utf8.RuneCountInString(value) > 2
	case FieldCurrentLocation:
		return rejectLocation, utf8.RuneCountInString(value) > 2
	}
	return "", false
}

func (m *Machine) reject(s *Session, field Field, msg string) Reply {
	s.Rejections++
	r := m.reply(s, msg)
	r.Rejection = &ValidationError{Stage: s.Stage, Field: field, Message: msg}
	return r
}

func (m *Machine) advance(ctx context.Context, s *Session, text string) Reply {
	c := s.Candidate

	switch s.Stage {
	case StageCollectingName:
		name := stripNamePrefix(text)
		if name == "" {
			return m.reject(s, FieldFullName, rejectName)
		}
		c.FullName = name

	case StageCollectingEmail:
		if !ValidateEmail(text) {
			return m.reject(s, FieldEmail, rejectEmail)
		}
		c.Email = text

	case StageCollectingPhone:
		if !ValidatePhone(text) {
			return m.reject(s, FieldPhone, rejectPhone)
		}
		c.Phone = text

	case StageCollectingExperience:
		years := ExtractExperience(text)
		if years == "" {
			return m.reject(s, FieldNone, rejectExperience)
		}
		c.YearsExperience = years

	case StageCollectingPosition:
		if utf8.RuneCountInString(text) <= 2 {
			return m.reject(s, FieldDesiredPosition, rejectPosition)
		}
		c.DesiredPosition = text

	case StageCollectingLocation:
		if utf8.RuneCountInString(text) <= 2 {
			return m.reject(s, FieldCurrentLocation, rejectLocation)
		}
		c.CurrentLocation = text

	case StageCollectingTechStack:
		stack := SplitTechStack(text)
		if utf8.RuneCountInString(text) <= 3 || len(stack) == 0 {
			return m.reject(s, FieldNone, rejectTechStack)
		}
		c.TechStack = stack
		s.Rejections = 0
		return m.startQuestions(ctx, s)

	case StageAskingQuestions:
		return m.answer(ctx, s, text)
	}

	s.Rejections = 0
	s.Stage = s.Stage.Next()
	return m.reply(s, PromptFor(s))
}

func (m *Machine) startQuestions(ctx context.Context, s *Session) Reply {
	c := s.Candidate
	var questions []string
	if m.questions != nil {
		generated, err := m.questions.Generate(ctx, c.TechStack, s.Bucket(), m.numQuestions)
		if err != nil {
			m.logger.Warn("SCREENING", "Question generation failed", map[string]interface{}{
				"candidate_id": s.ID,
				"error":        err.Error(),
			})
		}
		for _, q := range generated {
			if q = strings.TrimSpace(q); q != "" && len(questions) < m.numQuestions {
				questions = append(questions, q)
			}
		}
	}
	c.TechnicalQuestions = questions
	s.QuestionIndex = 0

	if len(questions) == 0 {
		return m.complete(ctx, s)
	}

	s.Stage = StageAskingQuestions
	intro := "Thanks! Based on your tech stack, I have a few technical questions for you."
	return m.reply(s, intro, PromptFor(s))
}

// answer records the reply to the current question. Answers are not graded
// here, so the index always moves on.
func (m *Machine) answer(ctx context.Context, s *Session, text string) Reply {
	c := s.Candidate
	c.Answers = append(c.Answers, entity.CandidateAnswer{
		Question: c.TechnicalQuestions[s.QuestionIndex],
		Answer:   text,
	})
	s.QuestionIndex++

	if s.QuestionIndex >= len(c.TechnicalQuestions) {
		return m.complete(ctx, s)
	}
	return m.reply(s, PromptFor(s))
}

// Resave retries the snapshot the store last refused. The reply of an ended
// session carries Completed again so the caller can finish it.
func (m *Machine) Resave(ctx context.Context, s *Session) Reply {
	warning := m.persist(ctx, s, "resave")
	var r Reply
	if warning != nil {
		r = m.reply(s)
	} else {
		r = m.reply(s, resavedMessage)
	}
	r.Completed = s.Ended && s.Completed
	r.Warning = warning
	return r
}

func (m *Machine) complete(ctx context.Context, s *Session) Reply {
	s.Stage = StageCompleted
	s.Ended = true
	s.Completed = true
	warning := m.persist(ctx, s, "complete")

	r := m.reply(s, completionMessage(s.Candidate.FullName, s.ID))
	r.Completed = true
	r.Warning = warning
	return r
}

func (m *Machine) persist(ctx context.Context, s *Session, reason string) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Upsert(ctx, s.ID, s.Candidate.Clone()); err != nil {
		m.logger.Warn("SCREENING", "Persist failed, keeping record in memory", map[string]interface{}{
			"candidate_id": s.ID,
			"reason":       reason,
			"error":        err.Error(),
		})
		s.SavePending = true
		return err
	}
	s.Persisted = true
	s.SavePending = false
	return nil
}

func (m *Machine) reply(s *Session, messages ...string) Reply {
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg != "" {
			out = append(out, msg)
		}
	}
	return Reply{Messages: out, Stage: s.Stage, Ended: s.Ended}
}

var namePrefixes = []string{"my name is ", "call me ", "i am ", "i'm "}

func stripNamePrefix(text string) string {
	lower := strings.ToLower(text)
	for _, p := range namePrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(text[len(p):])
		}
	}
	return text
}
