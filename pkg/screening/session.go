package screening

import (
	"strings"
	"time"

	"talentscout-be/internal/entity"

	"github.com/google/uuid"
)

// maxContextTurns bounds Session.Context (five user/assistant exchanges).
const maxContextTurns = 10

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-candidate conversation state. The caller owns it and
// must not hand the same Session to two Handle calls at once.
type Session struct {
	ID            string
	Candidate     *entity.Candidate
	Stage         Stage
	QuestionIndex int
	Ended         bool
	// Rejections counts consecutive inputs rejected at the current stage.
	Rejections int
	// Persisted is set once the record store has accepted a snapshot.
	Persisted bool
	// SavePending is set while the latest snapshot was refused by the store.
	// An ended session stays open for a resave until it clears.
	SavePending bool
	// Completed marks a session closed by answering the last question.
	Completed bool
	Context   []Turn
	StartedAt time.Time
}

// NewCandidateId returns "candidate_" followed by 32 hex characters.
func NewCandidateId() string {
	return "candidate_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewSession starts a session for a candidate who has consented at consentAt.
func NewSession(consentAt time.Time) *Session {
	id := NewCandidateId()
	ts := consentAt.UTC()
	return &Session{
		ID: id,
		Candidate: &entity.Candidate{
			CandidateId:      id,
			ConsentGiven:     true,
			ConsentTimestamp: &ts,
		},
		Stage:     StageGreeting,
		StartedAt: ts,
	}
}

// Remember appends a turn to the rolling context window.
func (s *Session) Remember(role, content string) {
	s.Context = append(s.Context, Turn{Role: role, Content: content})
	if over := len(s.Context) - maxContextTurns; over > 0 {
		s.Context = append([]Turn(nil), s.Context[over:]...)
	}
}

func (s *Session) Bucket() ExperienceBucket {
	return BucketFor(s.Candidate.YearsExperience)
}

// CurrentQuestion is empty outside StageAskingQuestions.
func (s *Session) CurrentQuestion() string {
	if s.Stage != StageAskingQuestions || s.QuestionIndex >= len(s.Candidate.TechnicalQuestions) {
		return ""
	}
	return s.Candidate.TechnicalQuestions[s.QuestionIndex]
}
