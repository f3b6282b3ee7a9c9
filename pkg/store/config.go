package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 描述快照存储的打开方式。
type Config struct {
	// Path 是 Badger 数据目录，InMemory 为 true 时必须为空。
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
	// ValueLogFileSize 为 0 时使用默认值 128MB。
	ValueLogFileSize int64 `yaml:"value_log_file_size"`
	// KeyPrefix 隔离同一 Badger 实例中的多组快照，默认 "crdt/"。
	KeyPrefix string `yaml:"key_prefix"`
}

const defaultKeyPrefix = "crdt/"

// LoadConfig 从 YAML 文件读取配置。
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig 解析 YAML 配置并填充默认值。
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.InMemory && c.Path != "":
		return fmt.Errorf("in_memory 与 path 不能同时设置")
	case !c.InMemory && c.Path == "":
		return fmt.Errorf("必须设置 path 或 in_memory")
	case c.ValueLogFileSize < 0:
		return fmt.Errorf("value_log_file_size 不能为负数: %d", c.ValueLogFileSize)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.ValueLogFileSize == 0 {
		c.ValueLogFileSize = defaultBadgerValueLogFileSize
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
	return c
}

func (c Config) badgerOptions() []BadgerOption {
	opts := []BadgerOption{WithBadgerValueLogFileSize(c.ValueLogFileSize)}
	if c.InMemory {
		opts = append(opts, WithBadgerInMemory())
	}
	return opts
}
