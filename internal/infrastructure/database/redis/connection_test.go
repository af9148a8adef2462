package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func configFor(mr *miniredis.Miniredis) *config.Config {
	return &config.Config{Redis: config.RedisConfig{
		Host:     mr.Host(),
		Port:     mr.Port(),
		PoolSize: 2,
	}}
}

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewConnection(configFor(mr), logger.Discard())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health())
	assert.NotNil(t, client.GetClient())

	mr.Close()
	assert.Error(t, client.Health())
}

func TestNewConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(mr)
	mr.Close()

	_, err := NewConnection(cfg, logger.Discard())
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
