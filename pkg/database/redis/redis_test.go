package redis_test

import (
	"context"
	"net"
	"testing"

	"clouddrive/pkg/database/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	tests := []struct {
		cfg      redis.RedisConfig
		addr     string
		password string
		db       int
	}{
		{cfg: redis.RedisConfig{Host: "localhost", Port: "6379"}, addr: "localhost:6379"},
		{cfg: redis.RedisConfig{Host: "cache", Port: "6380", Password: "pw", Db: 2}, addr: "cache:6380", password: "pw", db: 2},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			opts := redis.New(tt.cfg).Options()
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.password, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
		})
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client, err := redis.Connect(context.Background(), redis.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = redis.Connect(context.Background(), redis.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}
