package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"docvet/internal/config"
)

func TestLevelOf(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, levelOf(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "info", Format: FormatJSON}, &buf)

	l.Named(ComponentRunner).Sugar().Infow("run finished", "documents", 3)
	l.Debug("dropped below level")
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "runner", entry["component"])
	assert.Equal(t, "run finished", entry["msg"])
	assert.EqualValues(t, 3, entry["documents"])
	assert.NotContains(t, buf.String(), "dropped below level")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "debug", Format: FormatConsole}, &buf)

	l.Debug("watching")
	require.NoError(t, l.Sync())

	assert.Contains(t, buf.String(), " | DEBUG | ")
	assert.Contains(t, buf.String(), "watching")
}

func TestNew_TeesToFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "docvet.log")
	l := New(config.LogConfig{Level: "info", Format: FormatConsole, File: file, MaxSizeMB: 1, MaxBackups: 1}, &buf)

	l.Info("to both")
	_ = l.Sync()

	assert.Contains(t, buf.String(), "to both")
	assert.FileExists(t, file)
}
