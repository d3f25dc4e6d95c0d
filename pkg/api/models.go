package api

import "time"

// LogEntry is shipped to Kafka for every request. It never holds the feedback text.
type LogEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	IP             string    `json:"ip"`
	StatusCode     int       `json:"status_code"`
	RequestID      string    `json:"request_id"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	Duration       float64   `json:"duration_sec"`
	Service        string    `json:"service"`
	Classification string    `json:"classification,omitempty"`
}
