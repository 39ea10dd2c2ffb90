package download

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	MinConcurrent     = 1
	MaxConcurrent     = 10
	DefaultConcurrent = 4
)

type Config struct {
	BasePath       string `mapstructure:"base_path" yaml:"base_path"`
	MaxConcurrent  int    `mapstructure:"max_concurrent" yaml:"max_concurrent"` // 同时下载数（1-10）
	OrganizeByDate bool   `mapstructure:"organize_by_date" yaml:"organize_by_date"`
	Timeout        int    `mapstructure:"timeout" yaml:"timeout"` // 等待响应头的超时（秒），不限制下载时长
	Proxy          string `mapstructure:"proxy" yaml:"proxy"`
}

func DefaultConfig() *Config {
	base := "FediSleuth"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, "Downloads", "FediSleuth")
	}
	return &Config{
		BasePath:       base,
		MaxConcurrent:  DefaultConcurrent,
		OrganizeByDate: true,
		Timeout:        120,
	}
}

// Normalize 把 max_concurrent 规整到 [1, 10]
func (c *Config) Normalize() {
	if c.MaxConcurrent < MinConcurrent {
		c.MaxConcurrent = MinConcurrent
	}
	if c.MaxConcurrent > MaxConcurrent {
		c.MaxConcurrent = MaxConcurrent
	}
	if c.Timeout <= 0 {
		c.Timeout = 120
	}
}

func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path cannot be empty")
	}
	if c.MaxConcurrent < MinConcurrent || c.MaxConcurrent > MaxConcurrent {
		return fmt.Errorf("max_concurrent must be between %d and %d, got %d", MinConcurrent, MaxConcurrent, c.MaxConcurrent)
	}
	return nil
}
