package tailer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReadAppendedFromZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "hello world")

	tl := New(DefaultChunkSize)
	var got []byte
	res, err := tl.ReadAppended(path, 0, 0, func(b []byte) { got = append(got, b...) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusReadSome {
		t.Fatalf("expected ReadSome, got %v", res.Status)
	}
	if string(got) != "hello world" {
		t.Errorf("unexpected content: %q", got)
	}
	if res.NewOffset != int64(len("hello world")) {
		t.Errorf("unexpected new offset: %d", res.NewOffset)
	}
}

func TestReadAppendedNoData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "hello")

	tl := New(DefaultChunkSize)
	res, err := tl.ReadAppended(path, int64(len("hello")), 0, func(b []byte) {
		t.Fatalf("unexpected chunk: %q", b)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusNoData {
		t.Fatalf("expected NoData, got %v", res.Status)
	}
}

func TestReadAppendedIncremental(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "first")

	tl := New(DefaultChunkSize)
	res, err := tl.ReadAppended(path, 0, 0, func(b []byte) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString("second"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	var got []byte
	res2, err := tl.ReadAppended(path, res.NewOffset, 0, func(b []byte) { got = append(got, b...) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res2.Status != StatusReadSome {
		t.Fatalf("expected ReadSome, got %v", res2.Status)
	}
	if string(got) != "second" {
		t.Errorf("unexpected incremental content: %q", got)
	}
}

func TestReadAppendedTruncationWithNoData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "")

	tl := New(DefaultChunkSize)
	res, err := tl.ReadAppended(path, 1000, 0, func(b []byte) {
		t.Fatalf("unexpected chunk: %q", b)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusTruncatedReset {
		t.Fatalf("expected TruncatedReset, got %v", res.Status)
	}
	if res.NewOffset != 0 {
		t.Errorf("expected reset offset 0, got %d", res.NewOffset)
	}
}

func TestReadAppendedTruncationWithNewData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "short")

	tl := New(DefaultChunkSize)
	var got []byte
	res, err := tl.ReadAppended(path, 1000, 0, func(b []byte) { got = append(got, b...) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusReadSome {
		t.Fatalf("expected ReadSome for truncate-then-append, got %v", res.Status)
	}
	if string(got) != "short" {
		t.Errorf("unexpected content: %q", got)
	}
	if res.NewOffset != int64(len("short")) {
		t.Errorf("unexpected new offset: %d", res.NewOffset)
	}
}

func TestReadAppendedFileNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.log")

	tl := New(DefaultChunkSize)
	res, err := tl.ReadAppended(path, 0, 0, func(b []byte) {
		t.Fatalf("unexpected chunk: %q", b)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res.Status != StatusFileNotFound {
		t.Fatalf("expected FileNotFound, got %v", res.Status)
	}
}

func TestReadAppendedOffsetUntouchedOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.log")

	tl := New(DefaultChunkSize)
	res, _ := tl.ReadAppended(path, 42, 0, func(b []byte) {})
	if res.NewOffset != 0 {
		t.Errorf("tailer result should not fabricate an offset on error, got %d", res.NewOffset)
	}
}

func TestReadAppendedLargerThanChunkSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")

	content := make([]byte, 200*1024)
	for i := range content {
		content[i] = byte('a' + i%26)
	}
	writeFile(t, path, string(content))

	tl := New(64 * 1024)
	var total int
	var calls int
	res, err := tl.ReadAppended(path, 0, 0, func(b []byte) {
		total += len(b)
		calls++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusReadSome {
		t.Fatalf("expected ReadSome, got %v", res.Status)
	}
	if total != len(content) {
		t.Errorf("expected %d bytes total, got %d", len(content), total)
	}
	if calls < 2 {
		t.Errorf("expected multiple chunk callbacks for a large file, got %d", calls)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusReadSome:       "read_some",
		StatusNoData:         "no_data",
		StatusTruncatedReset: "truncated_reset",
		StatusFileNotFound:   "file_not_found",
		StatusAccessDenied:   "access_denied",
		StatusIoError:        "io_error",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
