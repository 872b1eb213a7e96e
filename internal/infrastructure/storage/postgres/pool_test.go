package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig("postgres://localhost/pharmacore")

	assert.Equal(t, "postgres://localhost/pharmacore", cfg.DSN)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, time.Minute, cfg.HealthCheckPeriod)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	pool, err := NewPool(context.Background(), DefaultPoolConfig("://not-a-dsn"))

	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "parse DSN")
}
