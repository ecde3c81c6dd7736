package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", "json")

	log.WithField("category", "URL").Debug("analyzed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "URL", entry["category"])
	assert.Equal(t, "analyzed", entry["msg"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "verbose", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewWritesToStderr(t *testing.T) {
	// stdout занят JSON-результатом команды analyze
	log := New("info", "text")
	assert.Same(t, os.Stderr, log.Out)
}
