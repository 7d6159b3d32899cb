// Package debug provides an opt-in, mutex-guarded debug log sink for the
// agent's internals. It is a no-op unless explicitly enabled, so the hot
// ingestion paths never pay for formatting they can't use.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug is a build flag that can be overridden at link time:
// go build -ldflags "-X github.com/standardbeagle/watchstats/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// debugOutput is the writer for debug output (nil means no output).
var debugOutput io.Writer

// debugFile holds the open file handle if debug output goes to a file.
var debugFile *os.File

// debugMutex protects access to debug output.
var debugMutex sync.Mutex

// SetDebugOutput sets a custom writer for debug output. Pass nil to disable.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile opens a timestamped log file under os.TempDir() and
// routes debug output there. Returns the path so the caller can report it.
// Call CloseDebugLog when done to ensure the file is properly closed.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "watchstats-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled reports whether debug logging is active, either via the
// build-time flag or the WATCHSTATS_DEBUG environment variable.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("WATCHSTATS_DEBUG")
	return v == "1" || v == "true"
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log writes a component-tagged debug line. No-op when disabled or when no
// sink has been configured.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogWatch logs watcher-adapter activity (directory scan, fsnotify events).
func LogWatch(format string, args ...interface{}) {
	Log("WATCH", format, args...)
}

// LogCoordinator logs worker-pool dispatch and lifecycle events.
func LogCoordinator(format string, args ...interface{}) {
	Log("COORD", format, args...)
}

// LogTailer logs file-tailer status transitions (truncation, I/O errors).
func LogTailer(format string, args ...interface{}) {
	Log("TAILER", format, args...)
}

// LogReporter logs reporter-interval swap/merge/render activity.
func LogReporter(format string, args ...interface{}) {
	Log("REPORT", format, args...)
}

// Fatal formats a catastrophic-condition message to the debug sink and
// returns it as an error; callers decide whether to exit.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if w := getDebugWriter(); w != nil {
		fmt.Fprintf(w, "[FATAL] %s\n", msg)
	}
	return fmt.Errorf("fatal: %s", msg)
}
