package screening

import (
	"regexp"
	"strings"

	"talentscout-be/internal/entity"
)

// Field names a candidate attribute that can be revised out of order.
type Field int

const (
	FieldNone Field = iota
	FieldFullName
	FieldEmail
	FieldPhone
	FieldCurrentLocation
	FieldDesiredPosition
)

func (f Field) String() string {
	switch f {
	case FieldFullName:
		return "full_name"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	case FieldCurrentLocation:
		return "current_location"
	case FieldDesiredPosition:
		return "desired_position"
	default:
		return "none"
	}
}

// Label is the human wording used in replies.
func (f Field) Label() string {
	switch f {
	case FieldFullName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone number"
	case FieldCurrentLocation:
		return "location"
	case FieldDesiredPosition:
		return "desired position"
	default:
		return ""
	}
}

// CollectedAt is the stage in which the field is normally filled in.
func (f Field) CollectedAt() Stage {
	switch f {
	case FieldFullName:
		return StageCollectingName
	case FieldEmail:
		return StageCollectingEmail
	case FieldPhone:
		return StageCollectingPhone
	case FieldCurrentLocation:
		return StageCollectingLocation
	case FieldDesiredPosition:
		return StageCollectingPosition
	default:
		return StageCompleted
	}
}

func (f Field) apply(c *entity.Candidate, value string) {
	switch f {
	case FieldFullName:
		c.FullName = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	case FieldCurrentLocation:
		c.CurrentLocation = value
	case FieldDesiredPosition:
		c.DesiredPosition = value
	}
}

type updateTrigger struct {
	field   Field
	phrases []string
}

// updateTriggers is checked top to bottom and the first matching field wins.
// The order is part of the contract.
var updateTriggers = []updateTrigger{
	{field: FieldFullName, phrases: []string{"change my name", "update my name", "my name is", "call me"}},
	{field: FieldEmail, phrases: []string{"change my email", "update my email"}},
	{field: FieldPhone, phrases: []string{"change my phone", "update my phone"}},
	{field: FieldCurrentLocation, phrases: []string{"change my location", "update my location"}},
	{field: FieldDesiredPosition, phrases: []string{"change my position", "update my position"}},
}

var exitKeywords = []string{
	"bye", "goodbye", "exit", "quit", "stop", "end", "cancel",
	"no thanks", "not interested", "leave", "close", "finish", "done",
}

var recallPhrases = []string{
	"what did i say", "what was my", "did i mention", "what's my", "remind me", "what did you ask",
}

// Keywords match as whole words; letters, digits, '_' and '-' are word
// characters so "Backend" and "end-to-end" do not count as "end".
var exitPattern = func() *regexp.Regexp {
	quoted := make([]string, len(exitKeywords))
	for i, k := range exitKeywords {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(k), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN_-])(?:` + strings.Join(quoted, "|") + `)(?:[^\pL\pN_-]|$)`)
}()

// IntentDetector classifies free text before normal stage handling. It is
// stateless and safe for concurrent use.
type IntentDetector struct{}

func NewIntentDetector() *IntentDetector {
	return &IntentDetector{}
}

func (d *IntentDetector) IsExit(text string) bool {
	return exitPattern.MatchString(text)
}

// UpdateField reports the field a message asks to revise, matching trigger
// phrases case-insensitively anywhere in the text.
func (d *IntentDetector) UpdateField(text string) (Field, bool) {
	lower := strings.ToLower(text)
	for _, t := range updateTriggers {
		for _, p := range t.phrases {
			if strings.Contains(lower, p) {
				return t.field, true
			}
		}
	}
	return FieldNone, false
}

// ExtractUpdateValue returns the last whitespace-delimited token with trailing
// sentence punctuation removed. It is a low-precision heuristic:
// "change my email please" yields "please", which then fails email
// validation, but "change my location to New York" yields "York".
func (d *IntentDetector) ExtractUpdateValue(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}
	return strings.TrimRight(tokens[len(tokens)-1], ".,!?;:")
}

// IsRecallQuestion spots questions about earlier answers ("what did I say
// about Docker?").
func (d *IntentDetector) IsRecallQuestion(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range recallPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
