package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1, cfg.RecordID)
	assert.Equal(t, SourceHTTP, cfg.RecordSource)
	assert.Equal(t, 10*time.Second, cfg.RecordServiceTimeout)
	assert.Equal(t, 0, cfg.RecordServiceRetry)
	assert.True(t, cfg.WriteBack)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, 30*time.Second, cfg.OTelMetricsInterval)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECORD_ID", "42")
	t.Setenv("RECORD_SERVICE_URL", "https://records.example.com")
	t.Setenv("RECORD_SERVICE_TIMEOUT", "2s")
	t.Setenv("RECORD_SERVICE_RETRY", "3")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := load(noEnvFile(t))

	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 42, cfg.RecordID)
	assert.Equal(t, "https://records.example.com", cfg.RecordServiceURL)
	assert.Equal(t, 2*time.Second, cfg.RecordServiceTimeout)
	assert.Equal(t, 3, cfg.RecordServiceRetry)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Origins())
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECORD_ID=9\nPORT=9090\n"), 0o600))

	cfg, err := load(path)

	require.NoError(t, err)
	assert.Equal(t, 9, cfg.RecordID)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_PostgresRequiresDatabase(t *testing.T) {
	t.Setenv("RECORD_SOURCE", SourcePostgres)

	_, err := load(noEnvFile(t))
	assert.Error(t, err)

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "records")

	cfg, err := load(noEnvFile(t))
	require.NoError(t, err)
	dbCfg := cfg.DB()
	assert.Equal(t, "localhost", dbCfg.Host)
	assert.Equal(t, 5432, dbCfg.Port)
	assert.Equal(t, "disable", dbCfg.SSLMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel:             "info",
			RecordID:             1,
			RecordSource:         SourceHTTP,
			RecordServiceURL:     "http://localhost",
			RecordServiceTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero record id", func(c *Config) { c.RecordID = 0 }, true},
		{"unknown source", func(c *Config) { c.RecordSource = "sqlite" }, true},
		{"missing url", func(c *Config) { c.RecordServiceURL = "" }, true},
		{"zero timeout", func(c *Config) { c.RecordServiceTimeout = 0 }, true},
		{"negative retry", func(c *Config) { c.RecordServiceRetry = -1 }, true},
		{"events without broker", func(c *Config) { c.EventsEnabled = true }, true},
		{"events with broker", func(c *Config) { c.EventsEnabled = true; c.RabbitMQURL = "amqp://localhost" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTelemetry(t *testing.T) {
	c := &Config{Env: "staging", OTelEnabled: true, OTelEndpoint: "otel:4317", OTelServiceName: "hre"}

	tc := c.Telemetry()

	assert.True(t, tc.Enabled)
	assert.Equal(t, "otel:4317", tc.OTLPEndpoint)
	assert.Equal(t, "staging", tc.Environment)
	assert.Equal(t, "hre", tc.ServiceName)
}

func TestVocabulary(t *testing.T) {
	c := &Config{}
	v, err := c.Vocabulary()
	require.NoError(t, err)
	assert.Equal(t, record.DefaultVocabulary(), v)

	path := filepath.Join(t.TempDir(), "vocabulary.yml")
	require.NoError(t, os.WriteFile(path, []byte("condition:\n  severities: [mild, severe, critical]\n"), 0o600))
	c.VocabularyFile = path

	v, err = c.Vocabulary()
	require.NoError(t, err)
	assert.Equal(t, []string{"mild", "severe", "critical"}, v.Severities)
	assert.Equal(t, record.DefaultVocabulary().Statuses, v.Statuses)

	c.VocabularyFile = filepath.Join(t.TempDir(), "missing.yml")
	_, err = c.Vocabulary()
	assert.Error(t, err)
}
