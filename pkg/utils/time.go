package utils

import "time"

// FormatTimestamp renders t as UTC RFC3339 with nanoseconds, the form
// stored in DynamoDB string attributes
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a FormatTimestamp value. Empty or malformed input
// yields the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
