package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gartstein/onboarding/internal/onboarding/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeFile(t, t.TempDir(), "config.yaml", `
GRPC_PORT: 6000
DB_DRIVER: "sqlite"
DB_PATH: "/tmp/onboarding.db"
KAFKA_BROKERS: ["k1:9092", "k2:9092"]
JWT_SECRET: "from-file"
`)
	// t.Setenv with an empty value still counts as set; clear it.
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, db.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"admin"}, cfg.SeedRoles)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
HTTP_PORT: 9000
JWT_SECRET: "from-file"
`)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "DB_NAME=from_dotenv\nJWT_SECRET=dotenv-secret\n")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := Load("", envFile, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.DBName)
	assert.Equal(t, "dotenv-secret", cfg.JWTSecret)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, db.DriverPostgres, cfg.DBDriver)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Run("BadYAML", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "GRPC_PORT: [")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load("")
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load("")
		assert.ErrorContains(t, err, "JWT_SECRET is required")
	})

	t.Run("BadPort", func(t *testing.T) {
		t.Setenv("GRPC_PORT", "abc")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestDatabase(t *testing.T) {
	cfg := Default()
	cfg.DBPort = 6543
	dbCfg := cfg.Database()
	assert.Equal(t, 6543, dbCfg.Port)
	assert.Equal(t, uint64(5), dbCfg.MaxRetries)
	assert.Equal(t, "onboarding.db", dbCfg.Path)
}

func TestLoadEnv_NoFiles(t *testing.T) {
	n, err := LoadEnv([]string{filepath.Join(t.TempDir(), ".env")})
	require.NoError(t, err)
	assert.Zero(t, n)
}
