package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateSessionID generates the value of the session id cookie
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsValidSessionID reports whether s looks like a session id we issued
func IsValidSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// FormatDuration formats a duration to a human-readable string
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
