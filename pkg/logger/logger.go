package logger

import (
	"context"
	"log/slog"
	"os"
	"sort"
)

type Level = slog.Level

const (
	DEBUG Level = slog.LevelDebug
	INFO  Level = slog.LevelInfo
	WARN  Level = slog.LevelWarn
	ERROR Level = slog.LevelError
)

var (
	levelVar = new(slog.LevelVar)
	log      = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
)

func SetLevel(l Level) {
	levelVar.Set(l)
}

// SetOutput swaps the backing handler; used by tests to capture output.
func SetOutput(l *slog.Logger) {
	log = l
}

func DebugCF(component, msg string, fields map[string]interface{}) {
	logCF(DEBUG, component, msg, fields)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	logCF(INFO, component, msg, fields)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	logCF(WARN, component, msg, fields)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	logCF(ERROR, component, msg, fields)
}

func logCF(level Level, component, msg string, fields map[string]interface{}) {
	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "component", component)

	// Sorted keys keep log lines stable across runs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, k, fields[k])
	}

	log.Log(context.Background(), level, msg, attrs...)
}
