package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"talentscout-be/internal/constant"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/llm"
	"talentscout-be/pkg/screening"
)

// minQuestionLength filters out headings and fragments that happen to end
// with a question mark.
const minQuestionLength = 20

type QuestionGenerator struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

var _ screening.QuestionGenerator = (*QuestionGenerator)(nil)

// NewQuestionGenerator accepts a nil provider; every call then uses the
// templated questions.
func NewQuestionGenerator(provider llm.LLMProvider, log logger.ILogger) *QuestionGenerator {
	return &QuestionGenerator{provider: provider, logger: log}
}

func (g *QuestionGenerator) Generate(ctx context.Context, techStack []string, bucket screening.ExperienceBucket, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if g.provider == nil {
		return TemplateQuestions(techStack, bucket, count), nil
	}

	prompt := fmt.Sprintf(constant.ScreeningQuestionPrompt, strings.Join(techStack, ", "), bucket, count, count)
	text, err := g.provider.Generate(ctx, prompt, llm.WithTemperature(0.4))
	if err != nil {
		g.logger.Warn("INTERVIEW", "LLM question generation failed, using templates", map[string]interface{}{
			"error": err.Error(),
		})
		return TemplateQuestions(techStack, bucket, count), nil
	}

	questions := ParseQuestions(text, count)
	if len(questions) == 0 {
		g.logger.Warn("INTERVIEW", "LLM returned no usable questions, using templates", map[string]interface{}{
			"response_length": len(text),
		})
		return TemplateQuestions(techStack, bucket, count), nil
	}
	if len(questions) < count {
		g.logger.Info("INTERVIEW", "LLM returned fewer questions than requested", map[string]interface{}{
			"requested": count,
			"received":  len(questions),
		})
	}
	return questions, nil
}

// ParseQuestions pulls numbered or bulleted questions out of free text. Only
// lines ending in "?" and longer than 20 characters survive; duplicates are
// dropped and the result is capped at count.
func ParseQuestions(text string, count int) []string {
	var questions []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)")
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(line)
		line = strings.ReplaceAll(line, "**", "")
		line = strings.ReplaceAll(line, "__", "")
		line = strings.TrimSpace(line)

		if !strings.HasSuffix(line, "?") || utf8.RuneCountInString(line) <= minQuestionLength {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		questions = append(questions, line)
		if len(questions) == count {
			break
		}
	}
	return questions
}

var questionTemplates = map[screening.ExperienceBucket][]string{
	screening.BucketBeginner: {
		"What are the core features of %s, and when would you choose it for a project?",
		"Can you walk through how you would debug a simple bug in a %s project?",
		"What is one common mistake beginners make with %s, and how do you avoid it?",
	},
	screening.BucketIntermediate: {
		"Which design patterns do you rely on most when building with %s, and why?",
		"How do you test and keep code quality high in a %s codebase?",
		"Describe a tricky production issue you solved with %s. What was the root cause?",
	},
	screening.BucketAdvanced: {
		"How would you architect a high-traffic system that relies on %s, and what trade-offs would you weigh?",
		"What performance bottlenecks have you hit with %s at scale, and how did you resolve them?",
		"How would you guide a team migrating a large legacy system onto %s?",
	},
}

// TemplateQuestions builds up to count distinct questions by cycling through
// the stack first and the bucket's templates second.
func TemplateQuestions(techStack []string, bucket screening.ExperienceBucket, count int) []string {
	templates, ok := questionTemplates[bucket]
	if !ok {
		templates = questionTemplates[screening.BucketIntermediate]
	}
	stack := techStack
	if len(stack) == 0 {
		stack = []string{"your primary technology"}
	}

	limit := len(stack) * len(templates)
	if count > limit {
		count = limit
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tech := stack[i%len(stack)]
		tmpl := templates[(i/len(stack))%len(templates)]
		out = append(out, fmt.Sprintf(tmpl, tech))
	}
	return out
}
