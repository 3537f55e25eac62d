package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "silent", want: LevelSilent},
		{in: "error", want: LevelError},
		{in: "warn", want: LevelWarn},
		{in: "info", want: LevelInfo},
		{in: "debug", want: LevelDebug},
		{in: "verbose", wantErr: true},
		{in: "", wantErr: true},
		{in: "INFO", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, LevelSilent, LevelError)
	assert.Less(t, LevelError, LevelWarn)
	assert.Less(t, LevelWarn, LevelInfo)
	assert.Less(t, LevelInfo, LevelDebug)
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn)

	log.Debug("dropped debug")
	log.Info("dropped info")
	log.Warn("kept warn")
	log.Error("kept error")

	out := buf.String()
	assert.NotContains(t, out, "dropped debug")
	assert.NotContains(t, out, "dropped info")
	assert.Contains(t, out, "kept warn")
	assert.Contains(t, out, "kept error")
}

func TestNewSilentDropsEverything(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelSilent)

	log.Error("never seen")
	log.Warn("never seen")

	assert.Empty(t, buf.String())
}

func TestNewDebugKeepsEverything(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug)

	log.Debug("debug line")
	out := buf.String()
	assert.Contains(t, out, "debug line")
	// Source paths are shortened to the basename.
	assert.NotContains(t, out, "/pkg/logger/")
}
