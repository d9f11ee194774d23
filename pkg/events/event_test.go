package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecorded_SubjectAndPayload(t *testing.T) {
	e := AuditRecorded{
		Prefix:      "audit",
		Id:          7,
		EventType:   "DATA_DELETED",
		CandidateId: "candidate_a",
		Timestamp:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "audit.DATA_DELETED", e.Subject())

	data, err := e.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "audit.")

	back, err := DecodeAuditRecorded(data)
	require.NoError(t, err)
	assert.Equal(t, "candidate_a", back.CandidateId)
	assert.True(t, e.Timestamp.Equal(back.Timestamp))
	assert.Empty(t, back.Prefix)
}

func TestDecodeAuditRecorded_Rejects(t *testing.T) {
	_, err := DecodeAuditRecorded([]byte("{"))
	assert.Error(t, err)
	_, err = DecodeAuditRecorded([]byte(`{"candidate_id":"x"}`))
	assert.Error(t, err)
}
