package interview

import (
	"context"
	"fmt"
	"strings"

	"talentscout-be/internal/constant"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/llm"
	"talentscout-be/pkg/screening"
)

// Messenger writes the free-form lines of a screening conversation. Every
// method degrades to static text (or "") when the LLM is absent or failing.
type Messenger struct {
	provider llm.LLMProvider
	system   string
	logger   logger.ILogger
}

var _ screening.Narrator = (*Messenger)(nil)

func NewMessenger(provider llm.LLMProvider, companyName string, log logger.ILogger) *Messenger {
	if companyName == "" {
		companyName = "TalentScout"
	}
	return &Messenger{
		provider: provider,
		system:   fmt.Sprintf(constant.ScreeningSystemPrompt, companyName),
		logger:   log,
	}
}

func (m *Messenger) ask(ctx context.Context, op string, prompt string, temperature float64) (string, error) {
	if m.provider == nil {
		return "", errNoProvider
	}
	out, err := m.provider.Generate(ctx, prompt, llm.WithSystem(m.system), llm.WithTemperature(temperature))
	if err != nil {
		m.logger.Warn("INTERVIEW", "LLM call failed", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
		})
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Greeting returns "" when no greeting could be generated; the state machine
// then uses its own.
func (m *Messenger) Greeting(ctx context.Context) string {
	out, _ := m.ask(ctx, "greeting", constant.ScreeningGreetingPrompt, 0.7)
	return out
}

func (m *Messenger) Goodbye(ctx context.Context, name string) string {
	if name == "" {
		name = "the candidate"
	}
	out, _ := m.ask(ctx, "goodbye", fmt.Sprintf(constant.ScreeningGoodbyePrompt, name), 0.7)
	return out
}

// Evaluate grades one answer. Unlike the conversational lines it reports
// failure so the caller can leave the evaluation empty.
func (m *Messenger) Evaluate(ctx context.Context, question, answer string, techStack []string) (string, error) {
	prompt := fmt.Sprintf(constant.ScreeningEvaluationPrompt, question, answer, strings.Join(techStack, ", "))
	return m.ask(ctx, "evaluate", prompt, 0.3)
}

// Fallback explains what the current stage expects after an unusable input.
func (m *Messenger) Fallback(ctx context.Context, input string, stage screening.Stage) string {
	out, err := m.ask(ctx, "fallback", fmt.Sprintf(constant.ScreeningFallbackPrompt, input, stage), 0.3)
	if err != nil || out == "" {
		return staticFallback(stage)
	}
	return out
}

// Recall answers a question about earlier turns from the retrieved lines.
// With no lines or no LLM it answers from the lines verbatim.
func (m *Messenger) Recall(ctx context.Context, question string, lines []string) string {
	if len(lines) == 0 {
		return "I don't have anything from earlier in our conversation that answers that."
	}
	out, err := m.ask(ctx, "recall", fmt.Sprintf(constant.ScreeningRecallPrompt, strings.Join(lines, "\n"), question), 0.2)
	if err != nil || out == "" {
		return "Here is what I found from earlier in our conversation:\n" + strings.Join(lines, "\n")
	}
	return out
}

func staticFallback(stage screening.Stage) string {
	switch stage {
	case screening.StageCollectingName:
		return "Sorry, I didn't catch that. I'm looking for your full name."
	case screening.StageCollectingEmail:
		return "Sorry, I didn't catch that. I'm looking for an email address like name@example.com."
	case screening.StageCollectingPhone:
		return "Sorry, I didn't catch that. I'm looking for a phone number with 10 to 15 digits."
	case screening.StageCollectingExperience:
		return "Sorry, I didn't catch that. Please tell me your years of experience as a number, for example 3."
	case screening.StageCollectingPosition:
		return "Sorry, I didn't catch that. Which role are you applying for?"
	case screening.StageCollectingLocation:
		return "Sorry, I didn't catch that. Which city or country are you based in?"
	case screening.StageCollectingTechStack:
		return "Sorry, I didn't catch that. Please list the languages, frameworks and tools you use, separated by commas."
	}
	return "Sorry, I didn't catch that. Could you rephrase?"
}
