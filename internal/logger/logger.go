// Package logger provides leveled logging for the filetagger CLI.
// Warnings and errors always print; info and debug messages print when
// verbose mode is enabled via the --verbose flag. An optional log file
// receives everything regardless of verbosity, so batch runs can be
// audited after the fact.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	logFile *os.File
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

// SetOutput sets the output writer for console logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLogFile opens path for appending and mirrors all log lines to it.
// Passing "" closes any previous log file.
func SetLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f
	return nil
}

// Close closes the log file if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log("DEBUG", true, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	log("INFO", true, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	log("WARN", false, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	log("ERROR", false, format, args...)
}

// log writes one line to the console (subject to verbosity) and to the
// log file (always).
func log(level string, verboseOnly bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	line := fmt.Sprintf("["+level+"] "+format+"\n", args...)
	if !verboseOnly || verbose {
		fmt.Fprint(output, line)
	}
	if logFile != nil {
		fmt.Fprintf(logFile, "%s %s", time.Now().Format(time.RFC3339), line)
	}
}
