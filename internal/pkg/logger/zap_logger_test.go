package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_RedactsCandidateData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)

	l.Info("STORE", "Candidate saved", map[string]interface{}{
		"candidate_id": "candidate_a",
		"email":        "asha@x.com",
		"Phone":        "9876543210",
	})
	require.NoError(t, l.Sync())

	logs, err := l.GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "candidate_a", logs[0].Details["candidate_id"])
	assert.Equal(t, redacted, logs[0].Details["email"])
	assert.Equal(t, redacted, logs[0].Details["Phone"])
}

func TestZapLogger_GetLogsFiltersAndPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)

	l.Info("SCREENING", "first", map[string]interface{}{"candidate_id": "candidate_a"})
	l.Warn("SCREENING", "second", map[string]interface{}{"candidate_id": "candidate_b"})
	l.Error("STORE", "third", map[string]interface{}{"candidate_id": "candidate_a"})
	l.Debug("STORE", "below file level", nil)
	require.NoError(t, l.Sync())

	all, err := l.GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.NotEmpty(t, all[0].Id)

	page, err := l.GetLogs(LogFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	byModule, err := l.GetLogs(LogFilter{Module: "store"}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byModule, 1)

	byCandidate, err := l.GetLogs(LogFilter{CandidateId: "candidate_a"}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byCandidate, 2)

	byLevel, err := l.GetLogs(LogFilter{Level: "WARN"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, byLevel, 1)
	assert.Equal(t, "second", byLevel[0].Message)

	past, err := l.GetLogs(LogFilter{}, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestZapLogger_MissingFile(t *testing.T) {
	l := &ZapLogger{logger: NewNopLogger().logger, filePath: filepath.Join(t.TempDir(), "none.log")}
	logs, err := l.GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
