package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/standardbeagle/watchstats/internal/reporter"
)

func TestRenderIncludesCoreCounters(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	p50 := 12
	snap := reporter.GlobalSnapshot{
		LinesProcessed: 100,
		Malformed:      3,
		TopK:           []reporter.TopKEntry{{Key: "request_started", Count: 50}},
		P50:            &p50,
	}
	r.Render(snap)

	out := buf.String()
	for _, want := range []string{"lines_processed=100", "malformed=3", "request_started", "p50=12", "p95=n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderHandlesEmptyTopK(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	r.Render(reporter.GlobalSnapshot{})

	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("expected a placeholder line for an empty top-k, got:\n%s", buf.String())
	}
}
