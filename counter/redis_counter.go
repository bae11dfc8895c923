package counter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gomodule/redigo/redis"
)

// ConnPool supplies redis connections, *redis.Pool implements it
type ConnPool interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

// RedisCounter use redis hashes implements Store,
// every counter key is a hash and every counter field is a hash field
type RedisCounter struct {
	Name      string
	pool      ConnPool
	keyPrefix string
}

// NewRedisCounter create RedisCounter,keyPrefix is prepended to every counter key
func NewRedisCounter(name string, pool ConnPool, keyPrefix string) *RedisCounter {
	return &RedisCounter{
		Name:      name,
		pool:      pool,
		keyPrefix: keyPrefix,
	}
}

// Init check the counter
func (p *RedisCounter) Init() error {
	if p.pool == nil {
		return fmt.Errorf("redis counter %s: pool must be set", p.Name)
	}
	return nil
}

// Ping check the redis server is reachable
func (p *RedisCounter) Ping(ctx context.Context) error {
	conn, err := p.conn(ctx, opPing, "")
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err = conn.Do("PING"); err != nil {
		return p.replyError(opPing, "", err)
	}
	return nil
}

// Incr implements Store.Incr with HINCRBY
func (p *RedisCounter) Incr(ctx context.Context, key, field string) (int64, error) {
	if err := validate(opIncr, key, field); err != nil {
		return 0, err
	}
	conn, err := p.conn(ctx, opIncr, key)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	n, err := redis.Int64(conn.Do("HINCRBY", p.counterKey(key), field, 1))
	if err != nil {
		return 0, p.replyError(opIncr, key, err)
	}
	return n, nil
}

// GetOrInit implements Store.GetOrInit.
// The default is written with HSETNX, when another client wins the race the
// stored value is read again and returned.
func (p *RedisCounter) GetOrInit(ctx context.Context, key, field string, def int64) (int64, error) {
	if err := validateDefault(opGetOrInit, key, field, def); err != nil {
		return 0, err
	}
	conn, err := p.conn(ctx, opGetOrInit, key)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	counterKey := p.counterKey(key)
	n, ok, err := p.hget(conn, counterKey, key, field)
	if err != nil || ok {
		return n, err
	}

	set, err := redis.Bool(conn.Do("HSETNX", counterKey, field, def))
	if err != nil {
		return 0, p.replyError(opGetOrInit, key, err)
	}
	if set {
		return def, nil
	}

	n, ok, err = p.hget(conn, counterKey, key, field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newError(ErrUnavailable, opGetOrInit, key, fmt.Errorf("field %s vanished after HSETNX", field))
	}
	return n, nil
}

// hget return the value of field,ok is false when the field is absent
func (p *RedisCounter) hget(conn redis.Conn, counterKey, key, field string) (n int64, ok bool, err error) {
	reply, err := conn.Do("HGET", counterKey, field)
	if err != nil {
		return 0, false, p.replyError(opGetOrInit, key, err)
	}
	if reply == nil {
		return 0, false, nil
	}
	n, err = redis.Int64(reply, nil)
	if err != nil {
		return 0, false, newError(ErrCorrupt, opGetOrInit, key, err)
	}
	if n < 0 {
		return 0, false, newError(ErrCorrupt, opGetOrInit, key, fmt.Errorf("negative value %d in field %s", n, field))
	}
	return n, true, nil
}

func (p *RedisCounter) conn(ctx context.Context, op, key string) (redis.Conn, error) {
	if p.pool == nil {
		return nil, newError(ErrUnavailable, op, key, errors.New("no pool"))
	}
	// the pool hands out idle connections without looking at ctx
	if err := ctx.Err(); err != nil {
		return nil, newError(ErrUnavailable, op, key, err)
	}
	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return nil, newError(ErrUnavailable, op, key, err)
	}
	return conn, nil
}

func (p *RedisCounter) counterKey(key string) string {
	return p.keyPrefix + key
}

// replyError map the redis error to Error,server replies about the type or
// the format of stored data are ErrCorrupt, others are ErrUnavailable
func (p *RedisCounter) replyError(op, key string, err error) error {
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := string(replyErr)
		if strings.HasPrefix(msg, "WRONGTYPE") || strings.Contains(msg, "not an integer") || strings.Contains(msg, "overflow") {
			return newError(ErrCorrupt, op, key, err)
		}
	}
	return newError(ErrUnavailable, op, key, err)
}
