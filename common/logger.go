package common

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// LogLevel 日志级别
type LogLevel int

// 日志级别
const (
	Debug LogLevel = iota + 1
	Info
	Warn
	Error
)

var logLevelNames = map[string]LogLevel{
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

// ParseLogLevel parse the level name (debug,info,warn,error)
func ParseLogLevel(name string) (LogLevel, bool) {
	level, ok := logLevelNames[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

func (l LogLevel) zapLevel() (zapcore.Level, bool) {
	switch l {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

// Logger 日志接口
type Logger interface {
	Debugf(format string, params ...interface{})
	DebugEnabled() bool
	Infof(format string, params ...interface{})
	InfoEnabled() bool
	Warnf(format string, params ...interface{})
	WarnEnabled() bool
	Errorf(format string, params ...interface{})
	ErrorEnabled() bool
	SetLevel(level LogLevel)
	Sync()
}

var (
	loggerMu sync.RWMutex
	logger   Logger = NewZapLogger(&LogConfig{})
)

// SetLogger replace the global logger
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// GetLogger return the global logger
func GetLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func initLogger(conf *LogConfig) error {
	SetLogger(NewZapLogger(conf))
	return nil
}

// SetLogLevel 设置全局日志级别,无效的级别被忽略
func SetLogLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// Debugf debug
func Debugf(format string, params ...interface{}) {
	GetLogger().Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	GetLogger().Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	GetLogger().Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	GetLogger().Errorf(format, params...)
}

// Logf log with level
func Logf(level LogLevel, format string, params ...interface{}) {
	l := GetLogger()
	switch level {
	case Debug:
		l.Debugf(format, params...)
	case Warn:
		l.Warnf(format, params...)
	case Error:
		l.Errorf(format, params...)
	default:
		l.Infof(format, params...)
	}
}

// DebugEnabled is debug enabled
func DebugEnabled() bool {
	return GetLogger().DebugEnabled()
}

// InfoEnabled is info enabled
func InfoEnabled() bool {
	return GetLogger().InfoEnabled()
}

// WarnEnabled is warn enabled
func WarnEnabled() bool {
	return GetLogger().WarnEnabled()
}

// ErrorEnabled is error enabled
func ErrorEnabled() bool {
	return GetLogger().ErrorEnabled()
}

// SyncLogger flush the global logger
func SyncLogger() {
	GetLogger().Sync()
}
