package screening

import (
	"fmt"
	"strings"
)

const (
	defaultGreeting = "Hello! I'm the TalentScout hiring assistant. I'll ask a few questions about your " +
		"background and then some technical questions based on your skills. You can type \"exit\" at any time to stop."

	promptName       = "To get started, may I have your full name?"
	promptPhone      = "Thanks! What's your phone number?"
	promptExperience = "How many years of professional experience do you have?"
	promptPosition   = "Which position are you interested in?"
	promptLocation   = "Where are you currently located?"
	promptTechStack  = "Please list your tech stack (languages, frameworks, databases, tools), separated by commas."

	rejectName       = "Please tell me your full name."
	rejectEmail      = "That doesn't look like a valid email address. Please enter it again (for example name@example.com)."
	rejectPhone      = "Please enter a valid phone number with 10 to 15 digits."
	rejectExperience = "Please enter your years of experience as a number, for example 3 or 2.5."
	rejectPosition   = "Please enter the position you're applying for."
	rejectLocation   = "Please enter your current location, for example Pune, India."
	rejectTechStack  = "Please list at least one technology, separated by commas."

	resavedMessage = "Thanks for waiting. Your details are now saved."
)

func promptEmail(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! What's your email address?", name)
}

func promptQuestion(index, total int, question string) string {
	return fmt.Sprintf("Question %d of %d: %s", index+1, total, question)
}

func defaultGoodbye(name string) string {
	if name == "" {
		return "Thank you for your time! Goodbye."
	}
	return fmt.Sprintf("Thank you for your time, %s! We'll be in touch. Goodbye.", name)
}

func updatedMessage(f Field, value string) string {
	return fmt.Sprintf("Updated your %s to %s.", f.Label(), value)
}

func completionMessage(name, candidateId string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you, %s! Your screening is complete and our team will review your answers.\n\n", name)
	fmt.Fprintf(&b, "Your candidate ID is %s. Keep it to exercise your data rights:\n", candidateId)
	b.WriteString("- Access: ask for a copy of the data we hold about you\n")
	b.WriteString("- Portability: receive your data as JSON or CSV\n")
	b.WriteString("- Erasure: ask us to delete your data at any time\n")
	b.WriteString("Your data is deleted automatically when the retention period ends.")
	return b.String()
}

// PromptFor is the question asked while waiting in stage s.
func PromptFor(s *Session) string {
	switch s.Stage {
	case StageGreeting, StageCollectingName:
		return promptName
	case StageCollectingEmail:
		return promptEmail(s.Candidate.FullName)
	case StageCollectingPhone:
		return promptPhone
	case StageCollectingExperience:
		return promptExperience
	case StageCollectingPosition:
		return promptPosition
	case StageCollectingLocation:
		return promptLocation
	case StageCollectingTechStack:
		return promptTechStack
	case StageAskingQuestions:
		return promptQuestion(s.QuestionIndex, len(s.Candidate.TechnicalQuestions), s.CurrentQuestion())
	case StageCompleted:
		return ""
	}
	return ""
}
