// Package cache 提供Redis连接池的配置和缓存数据的编码
package cache

import (
	"fmt"
	"net"
	"strconv"
	"time"

	c "github.com/d0ngw/statcounter/common"
	"github.com/gomodule/redigo/redis"
)

// Redis连接池的默认参数,时间单位毫秒
const (
	DefaultConnectTimout = 5 * 1000
	DefaultReadTimeout   = 5 * 1000
	DefaultWriteTimeout  = 5 * 1000
	DefaultMaxActive     = 100
	DefaultMaxIdle       = 2
	DefaultIdleTimeout   = 60 * 1000
)

// RedisConfigurer Redis配置器
type RedisConfigurer interface {
	c.Configurer
	RedisConfig() *RedisConf
}

// RedisPoolConf  Redis连接池配置
type RedisPoolConf struct {
	ConnectTimeout int `yaml:"connect_timeout"` //连接超时时间,单位毫秒
	ReadTimeout    int `yaml:"read_timeout"`    //读取超时,单位毫秒
	WriteTimeout   int `yaml:"write_timeout"`   //写取超时,单位毫秒
	MaxIdle        int `yaml:"max_idle"`        //最大空闲连接
	MaxActive      int `yaml:"max_active"`      //最大活跃连接,0表示不限制
	IdleTimeout    int `yaml:"idle_timeout"`    //空闲连接的超时时间,单位毫秒
}

func (p *RedisPoolConf) withDefault() *RedisPoolConf {
	conf := RedisPoolConf{}
	if p != nil {
		conf = *p
	}
	if conf.ConnectTimeout <= 0 {
		conf.ConnectTimeout = DefaultConnectTimout
	}
	if conf.ReadTimeout <= 0 {
		conf.ReadTimeout = DefaultReadTimeout
	}
	if conf.WriteTimeout <= 0 {
		conf.WriteTimeout = DefaultWriteTimeout
	}
	if conf.MaxIdle <= 0 {
		conf.MaxIdle = DefaultMaxIdle
	}
	if conf.MaxActive < 0 {
		conf.MaxActive = DefaultMaxActive
	}
	if conf.IdleTimeout <= 0 {
		conf.IdleTimeout = DefaultIdleTimeout
	}
	return &conf
}

// RedisConf Redis实例的配置
type RedisConf struct {
	Host string         `yaml:"host"` //Redis主机地址
	Port int            `yaml:"port"` //Redis的端口
	Auth string         `yaml:"auth"` //Redis认证密码
	DB   int            `yaml:"db"`   //Redis DB
	Pool *RedisPoolConf `yaml:"pool"` //连接池配置,未配置的项使用默认值
	pool *redis.Pool
}

// Addr return host:port
func (p *RedisConf) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Parse implements Configurer interface,检查配置并创建连接池
func (p *RedisConf) Parse() error {
	if p == nil {
		c.Warnf("no redis conf")
		return nil
	}
	if c.IsEmpty(p.Host) {
		return fmt.Errorf("invalid redis conf,host must not be empty")
	}
	if p.Port <= 0 {
		return fmt.Errorf("invalid redis conf,port %d", p.Port)
	}
	if p.DB < 0 {
		return fmt.Errorf("invalid redis conf,db %d", p.DB)
	}
	if p.pool != nil {
		return fmt.Errorf("redis %s already inited", p.Addr())
	}
	p.Pool = p.Pool.withDefault()
	p.pool = p.newPool(p.Pool)
	return nil
}

func (p *RedisConf) newPool(poolConf *RedisPoolConf) *redis.Pool {
	options := []redis.DialOption{
		redis.DialConnectTimeout(time.Duration(poolConf.ConnectTimeout) * time.Millisecond),
		redis.DialReadTimeout(time.Duration(poolConf.ReadTimeout) * time.Millisecond),
		redis.DialWriteTimeout(time.Duration(poolConf.WriteTimeout) * time.Millisecond),
		redis.DialDatabase(p.DB),
	}
	if p.Auth != "" {
		options = append(options, redis.DialPassword(p.Auth))
	}

	addr := p.Addr()
	return &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr, options...)
		},
		TestOnBorrow: func(conn redis.Conn, idleSince time.Time) error {
			if time.Since(idleSince) < time.Minute {
				return nil
			}
			_, err := conn.Do("PING")
			return err
		},
		MaxActive:   poolConf.MaxActive,
		MaxIdle:     poolConf.MaxIdle,
		IdleTimeout: time.Duration(poolConf.IdleTimeout) * time.Millisecond,
		Wait:        true,
	}
}

// RedisConfig implements RedisConfigurer
func (p *RedisConf) RedisConfig() *RedisConf {
	return p
}

// RedisPool return the pool created by Parse,nil if not parsed
func (p *RedisConf) RedisPool() *redis.Pool {
	return p.pool
}

// Close the pool
func (p *RedisConf) Close() error {
	if p.pool == nil {
		return nil
	}
	err := p.pool.Close()
	p.pool = nil
	return err
}
