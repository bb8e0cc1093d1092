package output

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelDebug},
		{"verbose", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestDownloadState_String(t *testing.T) {
	assert.Equal(t, "exists", StateExists.String())
	assert.Equal(t, "downloading", StateDownloading.String())
	assert.Equal(t, "downloaded", StateDownloaded.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "not_available", StateNotAvailable.String())
	assert.Equal(t, "unknown", DownloadState(42).String())
}

func TestJSONMode_WritesStructuredOutput(t *testing.T) {
	// Arrange
	var logs, stdout bytes.Buffer
	handler := slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: LevelTrace, ReplaceAttr: replaceLevel})
	ol := NewWithHandler(handler, true, &stdout)

	// Act
	ol.Status("listed %d workouts", 3)
	ol.Component("suunto").Slog().Log(context.Background(), LevelTrace, "request header", "name", "Accept")
	require.NoError(t, ol.JSON(map[string]int{"processed": 3}))
	area := ol.ActivityLine("🏃", "run", FileInfo{Type: "FIT", State: StateDownloading})

	// Assert
	assert.True(t, ol.JSONMode())
	assert.Nil(t, area, "no terminal areas in JSON mode")

	dec := json.NewDecoder(&logs)
	var status, trace, activity map[string]any
	require.NoError(t, dec.Decode(&status))
	require.NoError(t, dec.Decode(&trace))
	require.NoError(t, dec.Decode(&activity))

	assert.Equal(t, "status", status["msg"])
	assert.Equal(t, "listed 3 workouts", status["message"])
	assert.Equal(t, "TRACE", trace["level"])
	assert.Equal(t, "suunto", trace["component"])
	assert.Equal(t, "activity_status", activity["msg"])
	assert.Equal(t, "downloading", activity["state"])

	assert.JSONEq(t, `{"processed":3}`, stdout.String())
}

func TestInteractiveMode_JSONIsSilent(t *testing.T) {
	var stdout bytes.Buffer
	ol := NewWithHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), false, &stdout)

	require.NoError(t, ol.JSON(map[string]int{"processed": 3}))

	assert.False(t, ol.JSONMode())
	assert.Empty(t, stdout.String())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 kB", formatBytes(2048))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))
}
