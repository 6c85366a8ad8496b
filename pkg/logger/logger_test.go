package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log
	SetOutput(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetOutput(prev) })
	return &buf
}

func TestInfoCFIncludesComponentAndFields(t *testing.T) {
	buf := captureOutput(t, INFO)

	InfoCF("session", "Created session", map[string]interface{}{
		"session_id": "abc",
		"task":       "general",
	})

	out := buf.String()
	for _, want := range []string{"component=session", "session_id=abc", "task=general", "Created session"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestFieldsSortedByKey(t *testing.T) {
	buf := captureOutput(t, INFO)

	InfoCF("x", "msg", map[string]interface{}{"zebra": 1, "alpha": 2, "mid": 3})

	out := buf.String()
	if strings.Index(out, "alpha=") > strings.Index(out, "mid=") ||
		strings.Index(out, "mid=") > strings.Index(out, "zebra=") {
		t.Errorf("fields not sorted: %s", out)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	buf := captureOutput(t, INFO)

	DebugCF("x", "hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("debug line emitted at info level: %s", buf.String())
	}
}
