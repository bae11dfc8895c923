package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	SetLogLevel(Debug)
	Debugf("this is a test")
	assert.True(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	SetLogLevel(Info)
	assert.False(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	Debugf("this is a test, no debug")
	Infof("this is a test, info")
	SetLogLevel(0)
	assert.False(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	Infof("this is a test, no level")
	Logf(Warn, "The is a test, warn")
	SetLogLevel(Error)
	assert.False(t, DebugEnabled())
	assert.False(t, InfoEnabled())
	assert.False(t, WarnEnabled())
	assert.True(t, ErrorEnabled())
	Infof("this is a test, no error")
	Errorf("this is a test, error")
	SetLogLevel(Debug)
}

func TestParseLogLevel(t *testing.T) {
	level, ok := ParseLogLevel(" WARN ")
	assert.True(t, ok)
	assert.Equal(t, Warn, level)

	_, ok = ParseLogLevel("verbose")
	assert.False(t, ok)
}

func TestZapLoggerFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "statcounter.log")
	l := NewZapLogger(&LogConfig{
		Env:      EnvProduction,
		FileName: fileName,
		MaxSize:  1,
		Level:    "warn",
		NoCaller: true,
	})
	assert.False(t, l.InfoEnabled())
	assert.True(t, l.WarnEnabled())

	l.Infof("dropped %d", 1)
	l.Warnf("kept %d", 2)
	l.Sync()

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept 2")
	assert.NotContains(t, string(data), "dropped 1")
}

func TestLogConfigParseReplacesLogger(t *testing.T) {
	origin := GetLogger()
	defer SetLogger(origin)

	conf := &LogConfig{Level: "error"}
	require.NoError(t, conf.Parse())
	assert.False(t, WarnEnabled())
	assert.True(t, ErrorEnabled())

	SetLogger(nil)
	assert.NotNil(t, GetLogger())
}

func TestZapLoggerJSON(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "statcounter.json.log")
	l := NewZapLogger(&LogConfig{
		Env:      EnvProduction,
		FileName: fileName,
		Encoding: EncodingJSON,
		Name:     "statcounter",
		NoCaller: true,
	})
	assert.False(t, l.Enabled(Debug))
	assert.False(t, l.Enabled(LogLevel(0)))
	l.Infof("hello %s", "json")
	l.Sync()

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"statcounter"`)
	assert.Contains(t, string(data), `"msg":"hello json"`)
}

func TestLogConfigEncoding(t *testing.T) {
	origin := GetLogger()
	defer SetLogger(origin)

	assert.Error(t, (&LogConfig{Encoding: "xml"}).Parse())
	assert.Same(t, origin, GetLogger())
}
