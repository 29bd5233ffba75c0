package models

import "time"

// Summary aggregates the attempts recorded so far.
type Summary struct {
	Total          int        `json:"total"`
	Passing        int        `json:"passing"`
	Failing        int        `json:"failing"`
	SuccessPercent float64    `json:"success_percent"`
	LastStatus     int        `json:"last_status,omitempty"`
	LastAttempt    *time.Time `json:"last_attempt,omitempty"`
}

// Snapshot is a consistent copy of the checker state.
type Snapshot struct {
	Status      Status     `json:"status"`
	View        View       `json:"view"`
	PanelOpen   bool       `json:"panel_open"`
	Logs        []LogEntry `json:"logs"`
	Summary     Summary    `json:"summary"`
	Project     Project    `json:"project"`
	GeneratedAt time.Time  `json:"generated_at"`
}
