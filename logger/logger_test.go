package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected zerolog.Level
	}{
		{"trace", "trace", zerolog.TraceLevel},
		{"debug upper case", "DEBUG", zerolog.DebugLevel},
		{"warn alias", "warning", zerolog.WarnLevel},
		{"error with spaces", "  error ", zerolog.ErrorLevel},
		{"disabled", "off", zerolog.Disabled},
		{"unknown falls back to info", "verbose", zerolog.InfoLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	log.Info().Str("entity", "Order").Msg("created")
	log.Debug().Msg("filtered out")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "Order", entry["entity"])
	assert.Equal(t, "printshop-orders", entry["service"])
}

func TestInitIsSingleton(t *testing.T) {
	Reset()
	defer Reset()

	assert.Panics(t, func() { Get() }, "Get before Init should panic")

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "info", Output: &second})

	log := Get()
	log.Info().Msg("hello")

	assert.NotEmpty(t, first.String(), "first Init output should be used")
	assert.Empty(t, second.String(), "second Init should be ignored")
}
