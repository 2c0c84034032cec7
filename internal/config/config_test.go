package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "0 3 * * *", cfg.Worker.SweepCron)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("S3_BUCKET_NAME", "portal-artifacts")
	t.Setenv("WORKER_CONCURRENCY", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "portal-artifacts", cfg.Storage.S3.BucketName)
	assert.Equal(t, 12, cfg.Worker.Concurrency)
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, "aeroportal_test", cfg.Database.Name)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.NotEmpty(t, cfg.JWT.Secret)
}
