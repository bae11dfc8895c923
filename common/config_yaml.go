package common

import (
	"errors"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound 配置文件不存在
var ErrConfigNotFound = errors.New("config file not found")

// LoadYAML 将data中的YAML配置加载到到结构体target中
func LoadYAML(data []byte, target interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("can't load yaml config from empty data")
	}
	return yaml.Unmarshal(data, target)
}

// LoadConfig 从configDir目录下的多个path指定的YAML配置文件中加载配置,并解析
func LoadConfig(config Configurer, addonConfig string, configDir string, pathes ...string) error {
	return LoadConfigWithLoader(FileLoader, config, addonConfig, configDir, pathes...)
}

// LoadConfigWithLoader 使用loader读取addonConfig和各个配置文件的内容,按顺序拼接后解析到config,
// 后面的配置覆盖前面的同名项;任一文件不存在时返回ErrConfigNotFound
func LoadConfigWithLoader(loader ConfigLoader, config Configurer, addonConfig string, configDir string, pathes ...string) error {
	if loader == nil {
		return errors.New("no loader")
	}
	if len(pathes) == 0 && addonConfig == "" {
		return errInvalidConf
	}

	var content []byte
	if addonConfig != "" {
		content = append(content, addonConfig...)
		content = append(content, '\n')
	}
	for _, p := range pathes {
		cnt, err := loadConfigFile(loader, path.Join(configDir, p))
		if err != nil {
			return err
		}
		content = append(content, cnt...)
	}
	if err := LoadYAML(content, config); err != nil {
		return err
	}
	return config.Parse()
}

func loadConfigFile(loader ConfigLoader, p string) ([]byte, error) {
	exist, err := loader.Exist(p)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, fmt.Errorf("%s: %w", p, ErrConfigNotFound)
	}
	Infof("load conf from:%s", p)
	cnt, err := loader.Load(p)
	if err != nil {
		return nil, err
	}
	if len(cnt) == 0 {
		Warnf("empty content in %s", p)
		return nil, nil
	}
	return append(cnt, '\n'), nil
}
