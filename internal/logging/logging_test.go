package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: slog.LevelDebug},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNewHandler_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler("warn", FormatText, &buf)
	require.NoError(t, err)
	logger := slog.New(h)

	logger.Info("quiet")
	logger.Warn("loud", "chain_id", 31337)

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "chain_id=31337")
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler("debug", FormatJSON, &buf)
	require.NoError(t, err)

	slog.New(h).Debug("Receipt pending", "tx", "0xabc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Receipt pending", rec["msg"])
	assert.Equal(t, "0xabc", rec["tx"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestNewHandler_Errors(t *testing.T) {
	_, err := NewHandler("info", "xml", nil)
	assert.Error(t, err)
	_, err = NewHandler("loud", FormatText, nil)
	assert.Error(t, err)
}

func TestSetup_InstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := Setup("info", FormatJSON, &buf)
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	slog.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
