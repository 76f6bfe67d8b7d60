package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c := NewClient(&Config{Addr: mr.Addr(), DialTimeout: time.Second})
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Universal().Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	// 构造不拨号，连接失败只在使用时暴露
	c := NewClient(&Config{Addr: addr, DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer c.Close()

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}
