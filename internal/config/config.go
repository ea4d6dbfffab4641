package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// InputConfig 输入配置
type InputConfig struct {
	Path string `toml:"path"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Path string `toml:"path"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Dir 非空时额外写入日志文件
	Dir string `toml:"dir"`
}

// DefaultConfig 默认配置：当前目录下的 grades.json -> grades.xlsx
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			Path: "grades.json",
		},
		Output: OutputConfig{
			Path: "grades.xlsx",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfig 从 config.toml 加载配置
// 文件不存在时返回默认配置，未出现的键保持默认值
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
