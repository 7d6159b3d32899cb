package logparse

import (
	"testing"
	"time"
)

// TestParseS1 mirrors spec.md scenario S1: a valid line with latency.
func TestParseS1ValidLineWithLatency(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T03:04:05Z INFO request_started latency_ms=123"))
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.Level != Info {
		t.Errorf("expected Info, got %v", rec.Level)
	}
	if string(rec.Key) != "request_started" {
		t.Errorf("unexpected key: %q", rec.Key)
	}
	if !rec.HasLatency || rec.LatencyMs != 123 {
		t.Errorf("expected latency 123, got %d (present=%v)", rec.LatencyMs, rec.HasLatency)
	}
	want := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, rec.Timestamp)
	}
}

// TestParseS2 mirrors spec.md scenario S2: malformed timestamp.
func TestParseS2MalformedTimestamp(t *testing.T) {
	_, ok := Parse([]byte("not-a-ts INFO hi latency_ms=10"))
	if ok {
		t.Fatal("expected parse failure for malformed timestamp")
	}
}

func TestParseUnknownLevelMapsToOther(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T03:04:05Z TRACE something"))
	if !ok {
		t.Fatal("expected line to parse despite unknown level")
	}
	if rec.Level != Other {
		t.Errorf("expected Other, got %v", rec.Level)
	}
}

func TestParseOffsetTimestampNormalizedToUTC(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T05:04:05+02:00 WARN throttled"))
	if !ok {
		t.Fatal("expected line to parse")
	}
	want := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("expected %v (UTC-normalized), got %v", want, rec.Timestamp)
	}
}

func TestParseLatencyAbsent(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T03:04:05Z ERROR boom"))
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.HasLatency {
		t.Errorf("expected no latency, got %d", rec.LatencyMs)
	}
}

func TestParseLatencyMalformedLeavesAbsent(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T03:04:05Z ERROR boom latency_ms=notanumber"))
	if !ok {
		t.Fatal("expected line to still parse")
	}
	if rec.HasLatency {
		t.Errorf("expected latency absent for malformed value, got %d", rec.LatencyMs)
	}
}

func TestParseLatencyAnywhereInRest(t *testing.T) {
	rec, ok := Parse([]byte("2023-01-02T03:04:05Z INFO req extra=1 latency_ms=7 more=2"))
	if !ok {
		t.Fatal("expected line to parse")
	}
	if !rec.HasLatency || rec.LatencyMs != 7 {
		t.Errorf("expected latency 7, got %d (present=%v)", rec.LatencyMs, rec.HasLatency)
	}
}

func TestParseLatencyZeroAndBoundaries(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int64
	}{
		{"zero", "2023-01-02T03:04:05Z INFO k latency_ms=0", 0},
		{"ten thousand", "2023-01-02T03:04:05Z INFO k latency_ms=10000", 10000},
		{"overflow value", "2023-01-02T03:04:05Z INFO k latency_ms=10001", 10001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Parse([]byte(tt.line))
			if !ok {
				t.Fatal("expected line to parse")
			}
			if !rec.HasLatency || rec.LatencyMs != tt.want {
				t.Errorf("expected latency %d, got %d", tt.want, rec.LatencyMs)
			}
		})
	}
}

func TestParseMissingKeyIsMalformed(t *testing.T) {
	_, ok := Parse([]byte("2023-01-02T03:04:05Z INFO"))
	if ok {
		t.Fatal("expected parse failure when message key is missing")
	}
}

func TestParseMissingLevelIsMalformed(t *testing.T) {
	_, ok := Parse([]byte("2023-01-02T03:04:05Z"))
	if ok {
		t.Fatal("expected parse failure when level and key are missing")
	}
}

func TestParseEmptyLineIsMalformed(t *testing.T) {
	_, ok := Parse([]byte(""))
	if ok {
		t.Fatal("expected parse failure for an empty line")
	}
}

func TestParseKeyIsBorrowedView(t *testing.T) {
	line := []byte("2023-01-02T03:04:05Z INFO request_started latency_ms=1")
	rec, ok := Parse(line)
	if !ok {
		t.Fatal("expected line to parse")
	}
	// Mutate the underlying array through the original slice and confirm
	// the key reflects it — proof that no copy was made.
	line[26] = 'X'
	if rec.Key[0] != 'X' {
		t.Errorf("expected key to alias input bytes, got %q", rec.Key)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{Debug: "DEBUG", Info: "INFO", Warn: "WARN", Error: "ERROR", Other: "OTHER"}
	for lvl, want := range cases {
		if got := lvl.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", lvl, got, want)
		}
	}
}
