package bluesky

import (
	"fmt"
	"strings"
)

type Config struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceURL  string `mapstructure:"service_url" yaml:"service_url"` // XRPC 服务地址
	WebURL      string `mapstructure:"web_url" yaml:"web_url"`         // 生成帖子网页链接用
	Handle      string `mapstructure:"handle" yaml:"handle"`           // 如 alice.bsky.social
	AppPassword string `mapstructure:"app_password" yaml:"app_password"`
	Timeout     int    `mapstructure:"timeout" yaml:"timeout"`       // 单次请求超时（秒）
	PageLimit   int    `mapstructure:"page_limit" yaml:"page_limit"` // 每页数量（1-100）
	PageDelay   int    `mapstructure:"page_delay" yaml:"page_delay"` // 翻页间隔（毫秒）
	MaxPages    int    `mapstructure:"max_pages" yaml:"max_pages"`
	Proxy       string `mapstructure:"proxy" yaml:"proxy"`
	UserAgent   string `mapstructure:"user_agent" yaml:"user_agent"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		ServiceURL: "https://bsky.social",
		WebURL:     "https://bsky.app",
		Timeout:    45,
		PageLimit:  30,
		PageDelay:  100,
		MaxPages:   120,
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServiceURL) == "" {
		return fmt.Errorf("service_url cannot be empty")
	}
	if strings.TrimSpace(c.WebURL) == "" {
		return fmt.Errorf("web_url cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.PageLimit <= 0 || c.PageLimit > 100 {
		return fmt.Errorf("page_limit must be between 1 and 100, got %d", c.PageLimit)
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page_delay cannot be negative, got %d", c.PageDelay)
	}
	if c.MaxPages <= 0 || c.MaxPages > 120 {
		return fmt.Errorf("max_pages must be between 1 and 120, got %d", c.MaxPages)
	}
	return nil
}

func (c *Config) hasCredentials() bool {
	return strings.TrimSpace(c.Handle) != "" && strings.TrimSpace(c.AppPassword) != ""
}
