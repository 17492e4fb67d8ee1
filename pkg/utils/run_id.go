package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable id for one recorded run.
// Format: {trigger}-{8charHexUUID}
//
// Example:
//   - Input: trigger="analyze"
//   - Output: "analyze-a3f8e2b1"
//
// An empty trigger yields the bare suffix.
func GenerateRunID(trigger string) string {
	trigger = sanitizeTrigger(trigger)
	if trigger == "" {
		return generateShortUUID()
	}
	return trigger + "-" + generateShortUUID()
}

// sanitizeTrigger lowercases the trigger and keeps [a-z0-9-]
func sanitizeTrigger(trigger string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(trigger)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
