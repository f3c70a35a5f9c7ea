package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			l, err := New(level)
			if err != nil {
				t.Fatalf("New(%q) error = %v", level, err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("New(\"loud\") should fail")
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	l, err := New("warn")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}
