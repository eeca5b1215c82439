package models

import "time"

// CanonicalTimeLayout is ISO-8601 with an explicit zone offset, the
// format spec.md §4.1 requires for both hashing and wire encoding.
const CanonicalTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(CanonicalTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(CanonicalTimeLayout, s)
	if err != nil {
		// Accept RFC3339 as a fallback for hand-written fixtures/tests.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC(), nil
}
