package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	require.NoError(t, Configure(logger, "debug", "json"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("sector", 20).Debug("sector checksum mismatch")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sector checksum mismatch", entry["msg"])
	assert.Equal(t, float64(20), entry["sector"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_Defaults(t *testing.T) {
	logger := logrus.New()
	require.NoError(t, Configure(logger, "", ""))
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestConfigure_Invalid(t *testing.T) {
	logger := logrus.New()
	assert.Error(t, Configure(logger, "loud", "text"))
	assert.Error(t, Configure(logger, "info", "yaml"))
}
