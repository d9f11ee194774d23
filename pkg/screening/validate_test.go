package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"asha@x.com", "first.last+tag@sub.example.co.in", "  a_b%c@d-e.org  "}
	invalid := []string{"", "asha", "asha@", "asha@x", "asha@x.c", "@x.com", "asha x@y.com", "asha@@x.com"}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"9876543210", true},
		{"+91 98765-43210", true},
		{"(020) 1234 5678", true},
		{"123456789012345", true},
		{"987654321", false},
		{"1234567890123456", false},
		{"98765abc10", false},
		{"98765.43210", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.input))
		})
	}
}

func TestExtractExperience(t *testing.T) {
	assert.Equal(t, "3", ExtractExperience("3 years"))
	assert.Equal(t, "2.5", ExtractExperience("about 2.5 yrs"))
	assert.Equal(t, "", ExtractExperience("a few"))
}

func TestSplitTechStack(t *testing.T) {
	assert.Equal(t, []string{"Go", "Postgres", "Docker"}, SplitTechStack("Go, Postgres, Docker"))
	assert.Equal(t, []string{"Go", "Go", "Redis", "Kafka"}, SplitTechStack("Go;Go\nRedis,, ,Kafka"))
	assert.Empty(t, SplitTechStack(" , ;"))
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		years string
		want  ExperienceBucket
	}{
		{"0", BucketBeginner},
		{"1.9", BucketBeginner},
		{"2", BucketIntermediate},
		{"3", BucketIntermediate},
		{"5", BucketIntermediate},
		{"5.5", BucketAdvanced},
		{"12", BucketAdvanced},
		{"", BucketIntermediate},
		{"1.2.3", BucketIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.years, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketFor(tt.years))
		})
	}
}

func TestStage_StringAndParse(t *testing.T) {
	for s := StageGreeting; s <= StageCompleted; s++ {
		parsed, err := ParseStage(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseStage("WAITING")
	assert.Error(t, err)
	assert.Equal(t, StageCompleted, StageCompleted.Next())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}
