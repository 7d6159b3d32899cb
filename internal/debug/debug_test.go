package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	os.Unsetenv("WATCHSTATS_DEBUG")
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())

	os.Setenv("WATCHSTATS_DEBUG", "1")
	defer os.Unsetenv("WATCHSTATS_DEBUG")
	assert.True(t, IsDebugEnabled())
}

func TestLogComponents(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "true"
	var buf bytes.Buffer
	SetDebugOutput(&buf)

	LogWatch("added watch for %s", "/tmp/x")
	LogCoordinator("dispatching %s", "/tmp/x")
	LogTailer("truncated %s", "/tmp/x")
	LogReporter("merged %d buffers", 4)

	out := buf.String()
	assert.Contains(t, out, "[DEBUG:WATCH] added watch for /tmp/x")
	assert.Contains(t, out, "[DEBUG:COORD] dispatching /tmp/x")
	assert.Contains(t, out, "[DEBUG:TAILER] truncated /tmp/x")
	assert.Contains(t, out, "[DEBUG:REPORT] merged 4 buffers")
}

func TestLogDisabledIsNoop(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	var buf bytes.Buffer
	SetDebugOutput(&buf)

	LogWatch("should not appear")
	assert.Empty(t, buf.String())
}

func TestFatalReturnsErrorAndWritesSink(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "true"
	var buf bytes.Buffer
	SetDebugOutput(&buf)

	err := Fatal("disk full on %s", "/var/log")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full on /var/log")
	assert.Contains(t, buf.String(), "[FATAL] disk full on /var/log")
}

func TestConcurrentLogging(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			LogCoordinator("message from goroutine %d", id)
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	logPath, err := InitDebugLogFile()
	assert.NoError(t, err)
	assert.NotEmpty(t, logPath)

	_, err = os.Stat(logPath)
	assert.NoError(t, err)

	EnableDebug = "true"
	LogReporter("test log message")

	err = CloseDebugLog()
	assert.NoError(t, err)

	content, err := os.ReadFile(logPath)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "test log message")

	os.Remove(logPath)
}
