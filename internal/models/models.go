package models

import "time"

// Status is the connection state shown on the page.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	PingMethod = "GET"
	PingPath   = "/v1/ping"
)

// LogEntry records the outcome of a single ping attempt.
type LogEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Method   string    `json:"method"`
	Path     string    `json:"path"`
	Status   int       `json:"status"`
	Response string    `json:"response"`
}

// Alert reports whether the entry should be rendered as a failure.
func (e LogEntry) Alert() bool {
	return e.Status >= 400
}

// Project holds the configured Appwrite project, displayed verbatim.
type Project struct {
	Endpoint string `json:"endpoint"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

// View is the headline block derived from a Status.
type View struct {
	Headline      string `json:"headline"`
	Helper        string `json:"helper,omitempty"`
	Spinner       bool   `json:"spinner"`
	ButtonVisible bool   `json:"button_visible"`
}
