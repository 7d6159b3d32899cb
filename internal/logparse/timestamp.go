package logparse

import "time"

// timestampLayouts covers ISO-8601 with a literal Z or a numeric ±HH:MM
// offset, with and without fractional seconds. time.Parse tries each in
// order and returns the first that matches.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp parses an ISO-8601 timestamp field and normalizes it to
// UTC. Any parse failure reports ok=false; the caller treats that as a
// malformed line.
func parseTimestamp(field []byte) (time.Time, bool) {
	s := string(field)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
