package pixelfed

import (
	"fmt"
	"strings"
)

type Config struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	InstanceURL   string `mapstructure:"instance_url" yaml:"instance_url"`     // 如 https://pixelfed.social
	AccessToken   string `mapstructure:"access_token" yaml:"access_token"`     // 个人访问令牌
	Timeout       int    `mapstructure:"timeout" yaml:"timeout"`               // 单次请求超时（秒）
	LookupTimeout int    `mapstructure:"lookup_timeout" yaml:"lookup_timeout"` // 账号解析超时（秒），联邦查询较慢
	PageLimit     int    `mapstructure:"page_limit" yaml:"page_limit"`         // 每页数量（1-40）
	PageDelay     int    `mapstructure:"page_delay" yaml:"page_delay"`         // 翻页间隔（毫秒）
	MaxPages      int    `mapstructure:"max_pages" yaml:"max_pages"`
	Proxy         string `mapstructure:"proxy" yaml:"proxy"`
	UserAgent     string `mapstructure:"user_agent" yaml:"user_agent"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		InstanceURL:   "https://pixelfed.social",
		Timeout:       60,
		LookupTimeout: 45,
		PageLimit:     40,
		PageDelay:     100,
		MaxPages:      120,
	}
}

func (c *Config) Validate() error {
	if c.Enabled && strings.TrimSpace(c.InstanceURL) == "" {
		return fmt.Errorf("instance_url cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.LookupTimeout < 0 {
		return fmt.Errorf("lookup_timeout cannot be negative, got %d", c.LookupTimeout)
	}
	if c.PageLimit <= 0 || c.PageLimit > 40 {
		return fmt.Errorf("page_limit must be between 1 and 40, got %d", c.PageLimit)
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page_delay cannot be negative, got %d", c.PageDelay)
	}
	if c.MaxPages <= 0 || c.MaxPages > 120 {
		return fmt.Errorf("max_pages must be between 1 and 120, got %d", c.MaxPages)
	}
	return nil
}
