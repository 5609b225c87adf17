package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruki-qq/homework-bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_LevelAndFormatter(t *testing.T) {
	t.Run("production logs JSON", func(t *testing.T) {
		require.NoError(t, Init(&config.AppConfig{LogLevel: "debug", Environment: "production"}))
		assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)
	})

	t.Run("development logs text", func(t *testing.T) {
		require.NoError(t, Init(&config.AppConfig{LogLevel: "warn", Environment: "development"}))
		assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		require.NoError(t, Init(&config.AppConfig{LogLevel: "chatty", Environment: "development"}))
		assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	})
}

func TestInit_LogFile(t *testing.T) {
	t.Run("entries are mirrored to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot.log")
		require.NoError(t, Init(&config.AppConfig{LogLevel: "info", Environment: "development", LogFile: path}))

		Log.Info("homework bot log sink check")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "homework bot log sink check")
	})

	t.Run("unwritable path is reported", func(t *testing.T) {
		err := Init(&config.AppConfig{
			LogLevel:    "info",
			Environment: "development",
			LogFile:     filepath.Join(t.TempDir(), "no", "such", "dir", "bot.log"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open log file")
	})
}
