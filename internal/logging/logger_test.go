package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	require.NoError(t, Setup("", false, "debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.NoError(t, Setup("-", true, ""))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	assert.Error(t, Setup("", false, "loud"))
}

func TestUTCFormatter(t *testing.T) {
	f := newFormatter(true)
	zone := time.FixedZone("UTC+3", 3*60*60)
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, zone),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("2024-05-01 09:00:00.000")), string(out))
}

func TestSetup_WritesFile(t *testing.T) {
	defer logrus.SetOutput(os.Stdout)
	dir := t.TempDir()

	require.NoError(t, Setup(dir, false, "info"))
	defer func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) }()

	logrus.Info("file logging works")

	_, err := os.Lstat(filepath.Join(dir, logFileName))
	assert.NoError(t, err)
}
