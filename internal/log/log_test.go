package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec-lens/webspec-lens/internal/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    slog.Level
		expectError bool
	}{
		"error level":    {input: "error", expected: slog.LevelError},
		"warn level":     {input: "warn", expected: slog.LevelWarn},
		"warning level":  {input: "warning", expected: slog.LevelWarn},
		"info level":     {input: "info", expected: slog.LevelInfo},
		"debug level":    {input: "debug", expected: slog.LevelDebug},
		"case insensitive": {input: "INFO", expected: slog.LevelInfo},
		"unknown level":  {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.GetLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Format
		expectError bool
	}{
		"json format":      {input: "json", expected: log.FormatJSON},
		"logfmt format":    {input: "logfmt", expected: log.FormatLogfmt},
		"case insensitive": {input: "JSON", expected: log.FormatJSON},
		"unknown format":   {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetFormat(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := log.CreateHandler(&buf, slog.LevelInfo, log.FormatJSON)
	require.NotNil(t, handler)

	logger := slog.New(handler)
	logger.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestCreateHandlerWithStrings_InvalidLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := log.CreateHandlerWithStrings(&buf, "bogus", "json")
	require.Error(t, err)
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestCreateHandlerWithStrings_InvalidFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := log.CreateHandlerWithStrings(&buf, "info", "bogus")
	require.Error(t, err)
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestLogLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := log.CreateHandler(&buf, slog.LevelError, log.FormatJSON)
	logger := slog.New(handler)

	logger.Info("should be filtered")
	assert.Empty(t, buf.String())

	logger.Error("should appear")
	assert.Contains(t, buf.String(), "should appear")
}
