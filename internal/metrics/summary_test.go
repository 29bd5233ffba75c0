package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingcheck/internal/models"
)

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.SuccessPercent)
	assert.Nil(t, summary.LastAttempt)
}

func TestSummarizeCounts(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	entries := []models.LogEntry{
		{Status: 404, Date: at},
		{Status: 200, Date: at.Add(-time.Minute)},
		{Status: 500, Date: at.Add(-2 * time.Minute)},
	}

	summary := Summarize(entries)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Passing)
	assert.Equal(t, 2, summary.Failing)
	assert.Equal(t, 33.33, summary.SuccessPercent)
	assert.Equal(t, 404, summary.LastStatus)
	require.NotNil(t, summary.LastAttempt)
	assert.True(t, summary.LastAttempt.Equal(at))
}

func TestSummarizeTreats400AsFailure(t *testing.T) {
	summary := Summarize([]models.LogEntry{{Status: 400}, {Status: 399}})

	assert.Equal(t, 1, summary.Passing)
	assert.Equal(t, 1, summary.Failing)
	assert.Equal(t, 50.0, summary.SuccessPercent)
}
