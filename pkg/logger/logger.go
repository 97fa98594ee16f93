// Package logger provides per-unit file loggers. Every execution unit
// (a test case or a spreadsheet session) holds its own Logger handle so
// parallel units never interleave lines in one file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger writes leveled lines to a dedicated log file.
type Logger struct {
	mu   sync.Mutex
	out  *log.Logger
	file *os.File
	path string
}

// New creates a logger writing to the given path, truncating any
// previous content.
func New(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return &Logger{
		out:  log.New(f, "", log.Ltime|log.Lmicroseconds),
		file: f,
		path: path,
	}, nil
}

// NewWriter creates a logger around an existing writer. Used by tests
// and by console-only runs; Close is a no-op.
func NewWriter(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", log.Ltime|log.Lmicroseconds)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{out: log.New(io.Discard, "", 0)}
}

// Path returns the log file path, empty for writer-backed loggers.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs an info message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.printf("[INFO] "+format, v...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.printf("[DEBUG] "+format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.printf("[WARN] "+format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.printf("[ERROR] "+format, v...)
}

func (l *Logger) printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf(format, v...)
}
