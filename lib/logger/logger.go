// Package logger provides leveled, named loggers used as the diagnostic sink
// of the storage facades. Loggers are created on demand through GetLogger and
// shared process-wide, so every component that asks for the same name gets
// the same logger instance.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Log Levels
// --------------------------------------------------------------------------

type LogLevel int

const (
	CRITICAL LogLevel = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

// ParseLevel converts a string level to a LogLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warning", "warn":
		return WARNING
	case "error":
		return ERROR
	case "critical":
		return CRITICAL
	default:
		panic(fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error, critical", level))
	}
}

// --------------------------------------------------------------------------
// Logger Interface
// --------------------------------------------------------------------------

// ILogger is the interface for all named loggers
type ILogger interface {
	SetLevel(level LogLevel)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Panicf(format string, args ...interface{})
}

// --------------------------------------------------------------------------
// Custom Logger
// --------------------------------------------------------------------------

// hkvLogger implements the ILogger interface with custom formatting
type hkvLogger struct {
	name   string
	level  LogLevel
	logger *log.Logger
}

func (l *hkvLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *hkvLogger) Debugf(format string, args ...interface{}) {
	if l.level >= DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *hkvLogger) Infof(format string, args ...interface{}) {
	if l.level >= INFO {
		l.log("INFO", format, args...)
	}
}

func (l *hkvLogger) Warningf(format string, args ...interface{}) {
	if l.level >= WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *hkvLogger) Errorf(format string, args ...interface{}) {
	if l.level >= ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *hkvLogger) Panicf(format string, args ...interface{}) {
	if l.level >= CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *hkvLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Registry
// --------------------------------------------------------------------------

var (
	registry               = xsync.NewMapOf[string, *hkvLogger]()
	output       io.Writer = os.Stdout
	defaultLevel           = INFO
)

// GetLogger returns the logger registered under the given name, creating it
// with the current default level on first use.
func GetLogger(name string) ILogger {
	l, _ := registry.LoadOrCompute(name, func() *hkvLogger {
		return &hkvLogger{
			name:   name,
			level:  defaultLevel,
			logger: log.New(output, "", log.Ldate|log.Ltime),
		}
	})
	return l
}

// SetLevelAll sets the level of every registered logger and makes it the
// default for loggers created afterwards.
func SetLevelAll(level LogLevel) {
	defaultLevel = level
	registry.Range(func(_ string, l *hkvLogger) bool {
		l.SetLevel(level)
		return true
	})
}

// SetOutput redirects all current and future loggers to the given writer.
// Intended for tests that want to capture diagnostics.
func SetOutput(w io.Writer) {
	output = w
	registry.Range(func(_ string, l *hkvLogger) bool {
		l.logger.SetOutput(w)
		return true
	})
}
