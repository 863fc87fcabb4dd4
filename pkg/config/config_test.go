package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("RABBITMQ_HOST", "mq.internal")
	t.Setenv("FEED_LIMIT", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
	assert.Equal(t, "6380", cfg.RedisPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, "mq.internal", cfg.RabbitMQHost)
	assert.Equal(t, 25, cfg.FeedLimit)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("FEED_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.FeedLimit)
}

func TestLoadConfig_FeedLimitClamped(t *testing.T) {
	t.Setenv("FEED_LIMIT", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.FeedLimit)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable", cfg.PostgresDSN())
}
