// Package logging provides the leveled logger used by the command line
// tools. Output below the configured level is dropped.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level defines the logging levels
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the textual form of a level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to its Level. Unknown names default to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DEBUG
	case "warn", "WARN":
		return WARN
	case "error", "ERROR":
		return ERROR
	default:
		return INFO
	}
}

var (
	mu       sync.Mutex
	minLevel = INFO
	out      = log.New(os.Stderr, "", log.LstdFlags)

	file    *os.File
	fileOut *log.Logger
)

// SetLevel sets the minimum level that gets written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects the log stream, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", log.LstdFlags)
}

// OpenFile adds a file sink that receives every level regardless of the
// console level.
func OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("logging: open %s: %w", path, err)
	}
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	fileOut = log.New(f, "", log.LstdFlags)
	return nil
}

// CloseFile detaches and closes the file sink, if any.
func CloseFile() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
		fileOut = nil
	}
}

// Debugf logs a DEBUG level message
func Debugf(format string, args ...any) { logMessage(DEBUG, format, args...) }

// Infof logs an INFO level message
func Infof(format string, args ...any) { logMessage(INFO, format, args...) }

// Warnf logs a WARN level message
func Warnf(format string, args ...any) { logMessage(WARN, format, args...) }

// Errorf logs an ERROR level message
func Errorf(format string, args ...any) { logMessage(ERROR, format, args...) }

func logMessage(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if fileOut != nil {
		fileOut.Printf("[%s] %s", level, msg)
	}
	if level >= minLevel {
		out.Printf("[%s] %s", level, msg)
	}
}
