package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNewLogger_JSONToConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "hetgraph.log")

	l, err := NewLogger(Config{
		Level:      slog.LevelInfo,
		OutputFile: path,
		JSONFormat: true,
		Console:    &console,
	})
	require.NoError(t, err)

	l.Slog().Debug("hidden")
	l.Slog().With("component", "assembler").Info("graph assembled", "edges", 3)
	require.NoError(t, l.Close())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(console.Bytes()), &entry))
	assert.Equal(t, "graph assembled", entry["msg"])
	assert.Equal(t, "assembler", entry["component"])
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(data))
}

func TestNewLogger_RotatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hetgraph.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))

	l, err := NewLogger(Config{OutputFile: path, MaxSize: 32, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
}
