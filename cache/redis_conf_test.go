package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfParse(t *testing.T) {
	conf := &RedisConf{Host: "127.0.0.1", Port: 6379, Pool: &RedisPoolConf{MaxIdle: 8}}
	require.NoError(t, conf.Parse())
	defer conf.Close()

	assert.Equal(t, "127.0.0.1:6379", conf.Addr())
	assert.NotNil(t, conf.RedisPool())
	assert.Equal(t, 8, conf.Pool.MaxIdle)
	assert.Equal(t, DefaultReadTimeout, conf.Pool.ReadTimeout)
	assert.Equal(t, 8, conf.RedisPool().MaxIdle)

	assert.Error(t, conf.Parse(), "parse twice")
	require.NoError(t, conf.Close())
	assert.Nil(t, conf.RedisPool())
}

func TestRedisConfInvalid(t *testing.T) {
	assert.Error(t, (&RedisConf{Port: 6379}).Parse())
	assert.Error(t, (&RedisConf{Host: "localhost"}).Parse())
	assert.Error(t, (&RedisConf{Host: "localhost", Port: 6379, DB: -1}).Parse())

	var nilConf *RedisConf
	assert.NoError(t, nilConf.Parse())
}
