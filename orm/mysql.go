package orm

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MysqlDBConfig MySQL数据库
type MysqlDBConfig DBConfig

// DSN 构建MySQL的连接串
func (config *MysqlDBConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = config.User
	mc.Passwd = config.Pass
	mc.Net = "tcp"
	mc.Addr = config.URL
	mc.DBName = config.Schema
	mc.ParseTime = true
	mc.Loc = time.Local
	if config.Charset != "" {
		mc.Params = map[string]string{"charset": config.Charset}
	}
	if config.TimeoutMills > 0 {
		timeout := time.Duration(config.TimeoutMills) * time.Millisecond
		mc.Timeout = timeout
		mc.ReadTimeout = timeout
		mc.WriteTimeout = timeout
	}
	return mc.FormatDSN()
}

// NewDBPool 构建MySql数据库连接池
func (config *MysqlDBConfig) NewDBPool() (*sql.DB, error) {
	if config == nil {
		return nil, errors.New("not found config")
	}
	if len(config.User) == 0 || len(config.URL) == 0 || len(config.Schema) == 0 {
		return nil, errors.New("invalid config")
	}

	db, err := sql.Open("mysql", config.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(config.MaxIdle)
	db.SetMaxOpenConns(config.MaxConn)
	if config.MaxTimeSecond > 0 {
		db.SetConnMaxLifetime(time.Duration(config.MaxTimeSecond) * time.Second)
	}
	return db, nil
}

// NewDB 使用DBConfig构建连接池
func NewDB(config *DBConfig) (*sql.DB, error) {
	return (*MysqlDBConfig)(config).NewDBPool()
}
