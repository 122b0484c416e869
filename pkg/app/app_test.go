package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/code-payments/code-vault-program/pkg/testutil"
)

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: vault
log_level: debug
app:
  ledger:
    backend: memory
`), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vault", config.AppName)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 30*time.Second, config.ShutdownGracePeriod)
	assert.Empty(t, config.NewRelicLicenseKey)
	require.Contains(t, config.AppConfig, "ledger")
}

func TestLoadConfig_Missing(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig.LogLevel, config.LogLevel)
	assert.Empty(t, config.AppName)
}

func TestConfigureLogger(t *testing.T) {
	originalLevel := logrus.GetLevel()
	originalOut := logrus.StandardLogger().Out
	originalFormatter := logrus.StandardLogger().Formatter
	defer func() {
		logrus.SetLevel(originalLevel)
		logrus.SetOutput(originalOut)
		logrus.SetFormatter(originalFormatter)
	}()

	configureLogger(BaseConfig{LogLevel: "DEBUG"}, nil)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	configureLogger(BaseConfig{LogLevel: "unknown"}, nil)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}
