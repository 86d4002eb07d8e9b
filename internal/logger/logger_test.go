package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.name))
		})
	}
}

func TestNew_WritesJSONToOut(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})

	l.Info().Str("file", "q1.csv").Msg("loaded ledger")

	assert.Contains(t, buf.String(), `"message":"loaded ledger"`)
	assert.Contains(t, buf.String(), `"file":"q1.csv"`)
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Out: &buf})

	l.Info().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Pretty: true, Out: &buf})

	l.Debug().Int("dropped", 2).Msg("rows dropped")

	out := buf.String()
	assert.Contains(t, out, "rows dropped")
	assert.NotContains(t, out, `"message"`)
}
