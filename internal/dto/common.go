package dto

import "time"

// ISO8601Millis is the wire format for instants, e.g. 2025-06-01T09:00:00.000Z
const ISO8601Millis = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in UTC with millisecond precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISO8601Millis)
}

// MessageResponse is a bare confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}
