package common

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvProduction 生产环境
const EnvProduction = "production"

// 日志编码
const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

// ZapLogger 使用zap实现的Logger
type ZapLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// Debugf debug
func (l *ZapLogger) Debugf(format string, params ...interface{}) { l.sugar.Debugf(format, params...) }

// Infof info
func (l *ZapLogger) Infof(format string, params ...interface{}) { l.sugar.Infof(format, params...) }

// Warnf warn
func (l *ZapLogger) Warnf(format string, params ...interface{}) { l.sugar.Warnf(format, params...) }

// Errorf error
func (l *ZapLogger) Errorf(format string, params ...interface{}) { l.sugar.Errorf(format, params...) }

// Enabled 检查level级别的日志是否输出,无效的级别返回false
func (l *ZapLogger) Enabled(level LogLevel) bool {
	zapl, ok := level.zapLevel()
	return ok && l.level.Enabled(zapl)
}

// DebugEnabled is debug enabled
func (l *ZapLogger) DebugEnabled() bool { return l.Enabled(Debug) }

// InfoEnabled is info enabled
func (l *ZapLogger) InfoEnabled() bool { return l.Enabled(Info) }

// WarnEnabled is warn enabled
func (l *ZapLogger) WarnEnabled() bool { return l.Enabled(Warn) }

// ErrorEnabled is error enabled
func (l *ZapLogger) ErrorEnabled() bool { return l.Enabled(Error) }

// SetLevel set the log level
func (l *ZapLogger) SetLevel(level LogLevel) {
	if zapl, ok := level.zapLevel(); ok {
		l.level.SetLevel(zapl)
	}
}

// Sync impls Logger.Sync
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

// NewZapLogger 按conf创建logger,conf为nil时使用开发环境的默认配置
func NewZapLogger(conf *LogConfig) *ZapLogger {
	if conf == nil {
		conf = &LogConfig{}
	}
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	if conf.Env == EnvProduction {
		level.SetLevel(zapcore.InfoLevel)
	}
	if l, ok := ParseLogLevel(conf.Level); ok {
		zapl, _ := l.zapLevel()
		level.SetLevel(zapl)
	}

	logger := zap.New(zapcore.NewCore(newZapEncoder(conf), newZapSyncer(conf), level))
	if conf.Name != "" {
		logger = logger.Named(conf.Name)
	}
	if !conf.NoCaller {
		// 跳过全局函数和ZapLogger两层调用
		logger = logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))
	}
	return &ZapLogger{level: level, sugar: logger.Sugar()}
}

func newZapEncoder(conf *LogConfig) zapcore.Encoder {
	var config zapcore.EncoderConfig
	if conf.Env == EnvProduction {
		config = zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentEncoderConfig()
	}
	if conf.Encoding == EncodingJSON {
		return zapcore.NewJSONEncoder(config)
	}
	return zapcore.NewConsoleEncoder(config)
}

func newZapSyncer(conf *LogConfig) zapcore.WriteSyncer {
	if conf.FileName == "" {
		return zapcore.Lock(zapcore.AddSync(os.Stderr))
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.FileName,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		LocalTime:  true,
	})
}
