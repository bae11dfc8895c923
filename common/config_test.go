package common

import (
	"errors"
	"path/filepath"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var data = `
a: Easy!
b:
  c: 2
  d: [3, 4]
`

type conf struct {
	A string
	B struct {
		C int
		D []int `yaml:",flow"`
	}
}

func TestLoadYAML(t *testing.T) {
	config := conf{}
	require.NoError(t, LoadYAML([]byte(data), &config))
	assert.Equal(t, "Easy!", config.A)
	assert.Equal(t, 2, config.B.C)
	assert.Equal(t, []int{3, 4}, config.B.D)

	assert.Error(t, LoadYAML(nil, &config))
}

type parseCounter struct {
	Name   string `yaml:"name"`
	parsed int
	fail   bool
}

func (p *parseCounter) Parse() error {
	p.parsed++
	if p.fail {
		return errors.New("bad conf")
	}
	return nil
}

type testAppConfig struct {
	Log     *LogConfig     `yaml:"log"`
	Runtime *RuntimeConfig `yaml:"runtime"`
	First   *parseCounter  `yaml:"first"`
	Second  *parseCounter  `yaml:"second"`
	Value   parseCounter   `yaml:"value"`
	hidden  *parseCounter
}

func (p *testAppConfig) Parse() error {
	return Parse(p)
}

func TestParse(t *testing.T) {
	origin := GetLogger()
	defer SetLogger(origin)

	hidden := &parseCounter{}
	config := &testAppConfig{First: &parseCounter{}, hidden: hidden}
	require.NoError(t, Parse(config))
	assert.Equal(t, 1, config.First.parsed)
	assert.Nil(t, config.Second)
	assert.Equal(t, 1, config.Value.parsed)
	assert.Equal(t, 0, hidden.parsed)

	config.Second = &parseCounter{fail: true}
	assert.Error(t, Parse(config))

	assert.Equal(t, errInvalidConf, Parse("not a struct"))
}

type mapLoader map[string]string

func (p mapLoader) Load(configPath string) ([]byte, error) {
	content, ok := p[configPath]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (p mapLoader) Exist(configPath string) (bool, error) {
	_, ok := p[configPath]
	return ok, nil
}

func TestLoadConfigWithLoader(t *testing.T) {
	origin := GetLogger()
	defer SetLogger(origin)

	loader := mapLoader{
		"conf/a.yaml": "first:\n  name: a\n",
		"conf/b.yaml": "second:\n  name: b\n",
		"conf/e.yaml": "",
	}
	config := &testAppConfig{}
	err := LoadConfigWithLoader(loader, config, "log:\n  level: info\n", "conf", "a.yaml", "e.yaml", "b.yaml")
	require.NoError(t, err)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "a", config.First.Name)
	assert.Equal(t, "b", config.Second.Name)
	assert.Equal(t, 1, config.First.parsed)

	assert.Equal(t, errInvalidConf, LoadConfigWithLoader(loader, config, "", "conf"))
	assert.Error(t, LoadConfigWithLoader(nil, config, "", "conf", "a.yaml"))
	err = LoadConfigWithLoader(loader, config, "", "conf", "a.yaml", "missing.yaml")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "conf/missing.yaml")
}

func TestConfigFileLoader(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte("first:\n  name: file\n"), 0644))

	exist, err := FileLoader.Exist(fileName)
	require.NoError(t, err)
	assert.True(t, exist)

	exist, err = FileLoader.Exist(dir)
	require.NoError(t, err)
	assert.False(t, exist)

	exist, err = FileLoader.Exist(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)
	assert.False(t, exist)

	config := &testAppConfig{}
	require.NoError(t, LoadConfig(config, "", dir, "app.yaml"))
	assert.Equal(t, "file", config.First.Name)

	assert.ErrorIs(t, LoadConfig(config, "", dir, "none.yaml"), ErrConfigNotFound)
	assert.ErrorIs(t, LoadConfig(config, "", "", dir), ErrConfigNotFound)
}
