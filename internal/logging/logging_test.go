package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to info text", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log, err := New(Options{Output: buf})
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, log.GetLevel())

		log.Debug("hidden")
		log.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("json format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log, err := New(Options{Format: "json", Level: "debug", Output: buf})
		require.NoError(t, err)

		log.WithField("source", "x").Debug("hello")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "x", entry["source"])
	})

	t.Run("rejects unknown level and format", func(t *testing.T) {
		t.Parallel()
		_, err := New(Options{Level: "loud"})
		assert.Error(t, err)
		_, err = New(Options{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	assert.NotPanics(t, func() { log.Error("nothing") })
}
