package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, "bistroDB", cfg.MongoDB)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
	assert.Equal(t, 3, cfg.EmailMaxRetries)
	assert.Equal(t, time.Duration(0), cfg.RoleCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MONGO_TRANSACTIONS", "false")
	t.Setenv("EMAIL_PROVIDER", "Postmark")
	t.Setenv("ROLE_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://bistro.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.False(t, cfg.MongoTransactions)
	assert.Equal(t, "postmark", cfg.EmailProvider)
	assert.Equal(t, 30*time.Second, cfg.RoleCacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://bistro.example.com"}, cfg.AllowedOrigins())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MONGO_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URL")

	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_UnknownEmailProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_PROVIDER", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BISTRO_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("BISTRO_DOTENV_PROBE", "")
	os.Unsetenv("BISTRO_DOTENV_PROBE")

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("BISTRO_DOTENV_PROBE"))
}
