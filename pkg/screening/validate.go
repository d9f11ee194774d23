package screening

import (
	"regexp"
	"strings"
)

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneSeparators  = regexp.MustCompile(`[\s\-()+]`)
	experienceFilter = regexp.MustCompile(`[^0-9.]`)
)

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidatePhone strips spaces, dashes, parentheses and plus signs and then
// requires 10 to 15 digits.
func ValidatePhone(s string) bool {
	digits := phoneSeparators.ReplaceAllString(s, "")
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractExperience keeps only digits and dots ("about 3.5 yrs" -> "3.5").
func ExtractExperience(s string) string {
	return experienceFilter.ReplaceAllString(s, "")
}

// SplitTechStack splits on commas, semicolons and newlines. Order and
// duplicates are kept.
func SplitTechStack(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
