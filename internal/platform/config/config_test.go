package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pos")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("POS_ADDR", ":9090")
	t.Setenv("POS_ADMIN_TOKEN", "ops")
	t.Setenv("POS_CORS_ORIGINS", "https://coffee.example, https://m.coffee.example")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "ops", cfg.Server.AdminToken)
	assert.Equal(t, []string{"https://coffee.example", "https://m.coffee.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "soon")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_QUERY_TIMEOUT")
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  addr: ":7070"
  admin_token: from-file
database:
  url: postgres://file/pos
  query_timeout: 2s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("POS_ADMIN_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Server.AdminToken)
	assert.Equal(t, "postgres://file/pos", cfg.Database.URL)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns, "unset keys keep defaults")
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
