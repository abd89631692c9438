package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_URL", "SQLITE_PATH", "HTTP_ADDR",
		"STORAGE_BUCKET", "REDIS_ADDR", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "qc-images", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, "qc-jobs", cfg.Feed.RedisChannel)
	assert.Equal(t, "gpt-4o-mini", cfg.Annotation.Model)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 45*time.Second, cfg.Annotation.Timeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/qc.db")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("STORAGE_FORCE_PATH_STYLE", "false")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("OPENAI_TIMEOUT", "10s")

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/qc.db", cfg.Database.SQLitePath)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, int32(7), cfg.Database.MaxConns)
	assert.False(t, cfg.Storage.ForcePathStyle)
	assert.InDelta(t, 0.2, cfg.Annotation.Temperature, 0.001)
	assert.Equal(t, 10*time.Second, cfg.Annotation.Timeout)
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{
		Database: DatabaseConfig{SQLitePath: "/tmp/qc.db"},
		Server:   ServerConfig{Addr: ":8080"},
		Storage:  StorageConfig{Bucket: "qc-images"},
	}
	require.NoError(t, valid.Validate())

	noStore := *valid
	noStore.Database = DatabaseConfig{}
	require.ErrorIs(t, noStore.Validate(), ErrInvalidInput)

	noBucket := *valid
	noBucket.Storage.Bucket = ""
	require.ErrorIs(t, noBucket.Validate(), ErrInvalidInput)
}
