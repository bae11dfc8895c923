// Package orm 提供MySQL数据库的配置和连接池
package orm

import (
	"fmt"
	"regexp"

	c "github.com/d0ngw/statcounter/common"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

//DBConfig 数据库配置
type DBConfig struct {
	User          string `yaml:"user"`
	Pass          string `yaml:"pass"`
	URL           string `yaml:"url"` //host:port
	Schema        string `yaml:"schema"`
	MaxConn       int    `yaml:"maxConn"`
	MaxIdle       int    `yaml:"maxIdle"`
	MaxTimeSecond int    `yaml:"maxTimeSecond"` //连接的最长存活时间,单位秒
	Charset       string `yaml:"charset"`
	TimeoutMills  int    `yaml:"timeoutMills"` //连接和读写超时,单位毫秒
	Table         string `yaml:"table"`        //计数器表名
	AutoCreate    bool   `yaml:"autoCreate"`   //是否自动创建计数器表
}

// Parse implements Configurer
func (p *DBConfig) Parse() error {
	if p.URL == "" {
		return fmt.Errorf("need url")
	}
	if p.Schema == "" {
		return fmt.Errorf("need schema")
	}
	if p.User == "" {
		return fmt.Errorf("need user")
	}
	if p.Table == "" {
		p.Table = "counter"
	}
	if !IsValidTableName(p.Table) {
		return fmt.Errorf("invalid table name %q", p.Table)
	}
	if p.Charset == "" {
		p.Charset = "utf8mb4"
	}
	return nil
}

// DBConfig implements DBConfigurer
func (p *DBConfig) DBConfig() *DBConfig {
	return p
}

// DBConfigurer DB配置器
type DBConfigurer interface {
	c.Configurer
	DBConfig() *DBConfig
}

// IsValidTableName 表名只能包含字母,数字和下划线
func IsValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}
