// Package logger provides verbose logging for the docsync CLI.
// When verbose mode is enabled via the --verbose flag, pipeline progress
// is printed to stderr with the elapsed time since the process started.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
	levelWarn  level = "warn"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	started           = time.Now()
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(lvl level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	elapsed := time.Since(started).Round(time.Millisecond)
	fmt.Fprintf(output, "%8s %-5s %s\n", elapsed, lvl, fmt.Sprintf(format, args...))
}

// Debug logs fine-grained pipeline progress.
func Debug(format string, args ...any) {
	emit(levelDebug, format, args...)
}

// Info logs notable pipeline events.
func Info(format string, args ...any) {
	emit(levelInfo, format, args...)
}

// Warn logs degraded behaviour the run recovered from.
func Warn(format string, args ...any) {
	emit(levelWarn, format, args...)
}

// Section marks the start of a pipeline phase.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n--- %s ---\n", name)
}
