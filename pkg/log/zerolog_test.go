package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf))

	z.Warn("queue full, oldest shot dropped",
		ShotID("abc"),
		Int("capacity", 2),
		Uint64("evictions", 7),
		Float64("lat", 55.75),
		Duration("age", 1500*time.Millisecond),
		Err(errors.New("boom")),
		Any("labels", []string{"car"}),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "queue full, oldest shot dropped", got["message"])
	assert.Equal(t, "abc", got["shot_id"])
	assert.Equal(t, float64(2), got["capacity"])
	assert.Equal(t, float64(7), got["evictions"])
	assert.Equal(t, 55.75, got["lat"])
	assert.Equal(t, float64(1500), got["age"])
	assert.Equal(t, "boom", got["error"])
	assert.Equal(t, []interface{}{"car"}, got["labels"])
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	z.Debug("hidden")
	z.Info("hidden")
	assert.Zero(t, buf.Len())

	z.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", String("k", "v"))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}
