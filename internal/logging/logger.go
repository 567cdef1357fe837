// Package logging provides level-based logging for the server.
//
// Output goes to stderr: under the stdio transport, stdout carries only
// MCP protocol frames.
package logging

import (
	"log"
	"os"
)

// Logger provides level-based logging functionality.
type Logger struct {
	debugEnabled bool
	infoLogger   *log.Logger
	debugLogger  *log.Logger
}

var globalLogger *Logger

// Initialize sets up the global logger with the debug mode setting.
func Initialize(debugMode bool) {
	globalLogger = &Logger{
		debugEnabled: debugMode,
		infoLogger:   log.New(os.Stderr, "", log.LstdFlags),
		debugLogger:  log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Info logs informational messages (always shown).
func Info(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.infoLogger.Printf(format, args...)
	}
}

// Debug logs debug messages (only shown when debug mode is enabled).
func Debug(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.debugEnabled {
		globalLogger.debugLogger.Printf("DEBUG: "+format, args...)
	}
}

// Error logs error messages (always shown).
func Error(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.infoLogger.Printf("ERROR: "+format, args...)
	}
}
