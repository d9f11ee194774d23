package screening

import "fmt"

// Stage is a step of the fixed screening order. The zero value is
// StageGreeting.
type Stage int

const (
	StageGreeting Stage = iota
	StageCollectingName
	StageCollectingEmail
	StageCollectingPhone
	StageCollectingExperience
	StageCollectingPosition
	StageCollectingLocation
	StageCollectingTechStack
	StageAskingQuestions
	StageCompleted
)

var stageNames = [...]string{
	StageGreeting:             "GREETING",
	StageCollectingName:       "COLLECTING_NAME",
	StageCollectingEmail:      "COLLECTING_EMAIL",
	StageCollectingPhone:      "COLLECTING_PHONE",
	StageCollectingExperience: "COLLECTING_EXPERIENCE",
	StageCollectingPosition:   "COLLECTING_POSITION",
	StageCollectingLocation:   "COLLECTING_LOCATION",
	StageCollectingTechStack:  "COLLECTING_TECH_STACK",
	StageAskingQuestions:      "ASKING_QUESTIONS",
	StageCompleted:            "COMPLETED",
}

func (s Stage) Valid() bool {
	return s >= StageGreeting && s <= StageCompleted
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the following stage. StageCompleted is terminal.
func (s Stage) Next() Stage {
	if s >= StageCompleted {
		return StageCompleted
	}
	return s + 1
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return StageGreeting, fmt.Errorf("unknown stage %q", name)
}
