// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnstructuredLogsCheck tests the unstructuredLogs function.
func TestUnstructuredLogsCheck(t *testing.T) { //nolint:paralleltest // mutates environment
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("UNSTRUCTURED_LOGS", tt.envValue)
			assert.Equal(t, tt.expected, unstructuredLogs())
		})
	}
}

// setSingletonForTest temporarily replaces the singleton logger and restores
// the original when the test completes.
func setSingletonForTest(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := singleton.Load()
	singleton.Store(l)
	t.Cleanup(func() { singleton.Store(prev) })
}

// TestLogLevels tests that each log function writes to the underlying handler.
func TestLogLevels(t *testing.T) { //nolint:paralleltest // mutates singleton
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	setSingletonForTest(t, slog.New(handler))

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	Infof("formatted %s", "message")
	Infow("structured message", "key", "value")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[5], &entry))
	assert.Equal(t, "structured message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

// TestGetAndSet tests the Get and Set accessors.
func TestGetAndSet(t *testing.T) { //nolint:paralleltest // mutates singleton
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	setSingletonForTest(t, l)

	assert.Same(t, l, Get())
}
