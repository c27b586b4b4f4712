// Package uuid generates time-ordered identifiers for database rows.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7. The leading 48 bits hold the Unix time in
// milliseconds, so ids sort by creation time when used as primary keys.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
