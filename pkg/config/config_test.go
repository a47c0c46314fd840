package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "rentabilidad-api", cfg.App.Name)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileBytes())
	assert.Equal(t, 100000, cfg.Upload.MaxRows)
	assert.InDelta(t, 0.8, cfg.Report.PriorYearFactor, 1e-9)
	assert.Equal(t, "VND", cfg.Report.CurrencyLabel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("UPLOAD_MAX_FILE_MB", "5")
	t.Setenv("REPORT_PRIOR_YEAR_FACTOR", "0.75")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxFileBytes())
	assert.InDelta(t, 0.75, cfg.Report.PriorYearFactor, 1e-9)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}

func TestLoad_Invalido(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":             "mongo",
		"REPORT_PRIOR_YEAR_FACTOR": "-1",
		"AI_PROVIDER":              "openai",
		"UPLOAD_MAX_ROWS":          "0",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "rentabilidad", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/rentabilidad?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
