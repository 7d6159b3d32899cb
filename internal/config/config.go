// Package config holds the agent's runtime configuration: the values a CLI
// flag or an optional .watchstats.kdl file can set, and the validation that
// runs before any component is constructed.
package config

import (
	"fmt"
	"os"
	"runtime"

	wserrors "github.com/standardbeagle/watchstats/internal/errors"
)

// Config is the fully-resolved set of knobs the coordinator, bus, tailer,
// and reporter are built from. Precedence is layered: an explicitly-set CLI
// flag wins over a .watchstats.kdl value, which in turn wins over the
// built-in Defaults below. The caller (cmd/watchstats) builds this bottom
// up against a zero-valued Config — ApplyDefaultsFile with the parsed file
// config, then ApplyBuiltinDefaults, each filling only what the previous
// step left at zero — then applies explicit CLI flags last and
// unconditionally, so a flag the user actually set always wins even when
// its value happens to be the zero value.
type Config struct {
	// WatchPath is the root directory to watch recursively. Must exist.
	WatchPath string

	// Workers is the number of coordinator worker goroutines.
	Workers int

	// QueueCapacity bounds the event bus.
	QueueCapacity int

	// ReportIntervalSec is how often the reporter swaps buffers and emits
	// a snapshot.
	ReportIntervalSec int

	// TopK is how many message keys the reporter surfaces per interval.
	TopK int

	// ChunkSize is the pooled read-buffer size the tailer uses, in bytes.
	ChunkSize int

	// DequeueTimeoutMs bounds how long a worker blocks in try_dequeue
	// before re-checking for shutdown.
	DequeueTimeoutMs int

	// Extensions lists the file extensions treated as processable log
	// files, e.g. ".log", ".txt".
	Extensions []string

	// Exclude lists glob patterns (doublestar syntax) for paths the
	// watcher should never treat as processable, even if their extension
	// matches.
	Exclude []string

	// Quiet suppresses the periodic report, useful when another
	// collaborator renders output some other way.
	Quiet bool
}

// Default file extensions treated as processable, per the input file format
// this agent consumes.
var defaultExtensions = []string{".log", ".txt"}

// Defaults returns a Config with every field set to its documented default.
func Defaults() *Config {
	return &Config{
		Workers:           runtime.NumCPU(),
		QueueCapacity:     10_000,
		ReportIntervalSec: 2,
		TopK:              10,
		ChunkSize:         64 * 1024,
		DequeueTimeoutMs:  200,
		Extensions:        append([]string(nil), defaultExtensions...),
	}
}

// Validate enforces that every numeric option is positive and that
// WatchPath was set and exists, aggregating every violation into a single
// MultiError so a CLI can report them all at once instead of failing on the
// first.
func (c *Config) Validate() error {
	var errs []error

	if c.WatchPath == "" {
		errs = append(errs, wserrors.NewConfigError("watch_path", c.WatchPath, fmt.Errorf("must be set")))
	} else if _, err := os.Stat(c.WatchPath); err != nil {
		errs = append(errs, wserrors.NewConfigError("watch_path", c.WatchPath, fmt.Errorf("must exist: %w", err)))
	}
	errs = append(errs, positive("workers", c.Workers)...)
	errs = append(errs, positive("queue_capacity", c.QueueCapacity)...)
	errs = append(errs, positive("report_interval", c.ReportIntervalSec)...)
	errs = append(errs, positive("topk", c.TopK)...)
	errs = append(errs, positive("chunk_size", c.ChunkSize)...)
	errs = append(errs, positive("dequeue_timeout_ms", c.DequeueTimeoutMs)...)

	if len(c.Extensions) == 0 {
		errs = append(errs, wserrors.NewConfigError("extensions", "", fmt.Errorf("must list at least one extension")))
	}

	multi := wserrors.NewMultiError(errs)
	if multi.HasErrors() {
		return multi
	}
	return nil
}

func positive(field string, v int) []error {
	if v <= 0 {
		return []error{wserrors.NewConfigError(field, fmt.Sprintf("%d", v), fmt.Errorf("must be > 0"))}
	}
	return nil
}

// ApplyDefaultsFile merges a lower-priority Config into c, filling in only
// the fields c leaves at their zero value; whatever c already has set is
// left untouched. The caller uses it twice on an initially zero-valued
// Config: first with the .watchstats.kdl-sourced Config, then (through
// ApplyBuiltinDefaults) with Defaults(), so the built-in defaults never
// overwrite a value the file already set. CLI flags are applied after both.
func (c *Config) ApplyDefaultsFile(file *Config) {
	if file == nil {
		return
	}
	if c.WatchPath == "" {
		c.WatchPath = file.WatchPath
	}
	if c.Workers == 0 {
		c.Workers = file.Workers
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = file.QueueCapacity
	}
	if c.ReportIntervalSec == 0 {
		c.ReportIntervalSec = file.ReportIntervalSec
	}
	if c.TopK == 0 {
		c.TopK = file.TopK
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = file.ChunkSize
	}
	if c.DequeueTimeoutMs == 0 {
		c.DequeueTimeoutMs = file.DequeueTimeoutMs
	}
	if len(c.Extensions) == 0 {
		c.Extensions = file.Extensions
	}
	if len(c.Exclude) == 0 {
		c.Exclude = file.Exclude
	}
	if !c.Quiet {
		c.Quiet = file.Quiet
	}
}

// ApplyBuiltinDefaults fills any field c still leaves at its zero value
// with the package's built-in default. The caller runs it after any
// .watchstats.kdl file has had first refusal and before applying explicit
// CLI flags.
func (c *Config) ApplyBuiltinDefaults() {
	c.ApplyDefaultsFile(Defaults())
}
