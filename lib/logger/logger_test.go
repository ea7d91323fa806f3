package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	l := GetLogger("level-test")
	l.SetLevel(WARNING)

	l.Debugf("debug message")
	l.Infof("info message")
	l.Warningf("warning message")
	l.Errorf("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below the configured level were logged: %q", out)
	}
	if !strings.Contains(out, "warning message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above the configured level were dropped: %q", out)
	}
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	a := GetLogger("shared")
	b := GetLogger("shared")
	if a != b {
		t.Error("expected the same logger instance for the same name")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":    DEBUG,
		"INFO":     INFO,
		"Warning":  WARNING,
		"error":    ERROR,
		"critical": CRITICAL,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseLevelPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid level")
		}
	}()
	ParseLevel("verbose")
}
