// Package http 提供计数服务的http接口
package http

import (
	"fmt"
	"os"
	"time"
)

// 默认配置
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10
)

// Config Http配置
type Config struct {
	Addr            string `yaml:"addr"`             //Http监听地址
	ReadTimeout     int    `yaml:"read_timeout"`     //读超时,单位秒
	WriteTimeout    int    `yaml:"write_timeout"`    //写超时,单位秒
	ShutdownTimeout int    `yaml:"shutdown_timeout"` //等待请求结束的最长时间,单位秒
	MaxConns        int    `yaml:"max_conns"`        //最大的并发连接数,0表示不限制
	StaticDir       string `yaml:"static_dir"`       //静态文件目录
}

// Parse implements Configurer
func (p *Config) Parse() error {
	if p.Addr == "" {
		p.Addr = DefaultAddr
	}
	if p.ReadTimeout < 0 || p.WriteTimeout < 0 || p.ShutdownTimeout < 0 {
		return fmt.Errorf("http: timeout must not be negative")
	}
	if p.ShutdownTimeout == 0 {
		p.ShutdownTimeout = DefaultShutdownTimeout
	}
	if p.MaxConns < 0 {
		return fmt.Errorf("http: invalid max_conns %d", p.MaxConns)
	}
	if p.StaticDir != "" {
		stat, err := os.Stat(p.StaticDir)
		if err != nil {
			return fmt.Errorf("http: static_dir %s,err:%w", p.StaticDir, err)
		}
		if !stat.IsDir() {
			return fmt.Errorf("http: static_dir %s is not a directory", p.StaticDir)
		}
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
