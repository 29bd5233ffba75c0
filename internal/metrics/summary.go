package metrics

import (
	"math"

	"pingcheck/internal/models"
)

// Summarize aggregates pass/fail counters from log entries ordered newest
// first. An attempt passes when its status is below 400.
func Summarize(entries []models.LogEntry) models.Summary {
	summary := models.Summary{Total: len(entries)}
	for _, entry := range entries {
		if entry.Alert() {
			summary.Failing++
		} else {
			summary.Passing++
		}
	}
	if summary.Total == 0 {
		return summary
	}

	summary.SuccessPercent = round2(float64(summary.Passing) / float64(summary.Total) * 100)
	latest := entries[0]
	summary.LastStatus = latest.Status
	if !latest.Date.IsZero() {
		at := latest.Date.UTC()
		summary.LastAttempt = &at
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
