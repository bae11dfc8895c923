package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/d0ngw/statcounter/cache"
	c "github.com/d0ngw/statcounter/common"
	"github.com/d0ngw/statcounter/counter"
	"github.com/d0ngw/statcounter/http"
	"github.com/d0ngw/statcounter/orm"
)

// envPort 覆盖监听端口的环境变量
const envPort = "PORT"

// posts计数的存储
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// PostsConfig views和likes计数的配置
type PostsConfig struct {
	Backend   string `yaml:"backend"`    //memory,redis或mysql
	KeyPrefix string `yaml:"key_prefix"` //redis key的前缀
}

// Parse implements Configurer
func (p *PostsConfig) Parse() error {
	if p.Backend == "" {
		p.Backend = BackendMemory
	}
	switch p.Backend {
	case BackendMemory, BackendRedis, BackendMySQL:
		return nil
	}
	return fmt.Errorf("unknown posts backend %q", p.Backend)
}

// ClicksConfig 按钮点击计数的配置
type ClicksConfig struct {
	File  string `yaml:"file"`  //计数文件
	Codec string `yaml:"codec"` //json或msgpack
}

// Parse implements Configurer
func (p *ClicksConfig) Parse() error {
	if p.File == "" {
		p.File = "bolts.json"
	}
	_, err := counter.CodecByName(p.Codec)
	return err
}

// AppConfig 配置
type AppConfig struct {
	Log     *c.LogConfig     `yaml:"log"`
	Runtime *c.RuntimeConfig `yaml:"runtime"`
	HTTP    *http.Config     `yaml:"http"`
	Posts   *PostsConfig     `yaml:"posts"`
	Clicks  *ClicksConfig    `yaml:"clicks"`
	Redis   *cache.RedisConf `yaml:"redis"`
	DB      *orm.DBConfig    `yaml:"db"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		HTTP:   &http.Config{Addr: http.DefaultAddr},
		Posts:  &PostsConfig{Backend: BackendMemory},
		Clicks: &ClicksConfig{File: "bolts.json", Codec: counter.JSONCodec.Name()},
	}
}

// Parse implements Configurer
func (p *AppConfig) Parse() error {
	if err := c.Parse(p); err != nil {
		return err
	}
	if p.HTTP == nil {
		p.HTTP = &http.Config{}
		if err := p.HTTP.Parse(); err != nil {
			return err
		}
	}
	if port := os.Getenv(envPort); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
			return fmt.Errorf("invalid %s %q", envPort, port)
		}
		p.HTTP.Addr = ":" + port
	}
	if p.Posts == nil {
		p.Posts = &PostsConfig{Backend: BackendMemory}
	}
	if p.Clicks == nil {
		p.Clicks = &ClicksConfig{}
		if err := p.Clicks.Parse(); err != nil {
			return err
		}
	}
	switch {
	case p.Posts.Backend == BackendRedis && p.Redis == nil:
		return fmt.Errorf("posts backend redis needs the redis section")
	case p.Posts.Backend == BackendMySQL && p.DB == nil:
		return fmt.Errorf("posts backend mysql needs the db section")
	}
	return nil
}

// loadConfig 加载path指定的配置文件,path为空时使用环境变量STATCOUNTER_CONFIG,都没有时使用默认配置
func loadConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = os.Getenv(envConfig)
	}
	conf := defaultConfig()
	if path == "" {
		if err := conf.Parse(); err != nil {
			return nil, err
		}
		return conf, nil
	}
	if err := c.LoadConfig(conf, "", "", path); err != nil {
		return nil, fmt.Errorf("load config %s fail,err:%w", path, err)
	}
	return conf, nil
}
