package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger("test", LogLevelWarn)
	l.SetOutput(&buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below the level should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above the level should pass:\n%s", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("output missing prefix:\n%s", out)
	}
}

func TestDefaultLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger("", LogLevelDebug)
	l.SetOutput(&buf)

	l.Info("score=%d findings=%d", 85, 5)

	if !strings.Contains(buf.String(), "score=85 findings=5") {
		t.Errorf("format args not applied:\n%s", buf.String())
	}
}

func TestLoggerFromVerbose(t *testing.T) {
	if _, ok := LoggerFromVerbose("x", true).(*DefaultLogger); !ok {
		t.Error("verbose should yield a DefaultLogger")
	}
	if _, ok := LoggerFromVerbose("x", false).(*NopLogger); !ok {
		t.Error("non-verbose should yield a NopLogger")
	}
}
