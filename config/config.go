package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/internal/platform/bluesky"
	"FediSleuth/internal/platform/mastodon"
	"FediSleuth/internal/platform/pixelfed"
	"FediSleuth/pkg/download"
	"FediSleuth/pkg/logger"
)

const envPrefix = "FEDISLEUTH"

// DatabaseConfig 搜索历史数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // 数据库文件路径
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug/info/warn/error
	File  string `mapstructure:"file" yaml:"file"`   // 为空时只输出到终端
	Color bool   `mapstructure:"color" yaml:"color"`
}

// AppConfig 应用总配置(全局 + 平台)
type AppConfig struct {
	Env      string          `mapstructure:"env" yaml:"env"` // 运行环境:dev/prod
	Log      LogConfig       `mapstructure:"log" yaml:"log"`
	Database DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Pixelfed pixelfed.Config `mapstructure:"pixelfed" yaml:"pixelfed"`
	Mastodon mastodon.Config `mapstructure:"mastodon" yaml:"mastodon"`
	Bluesky  bluesky.Config  `mapstructure:"bluesky" yaml:"bluesky"`
	Download download.Config `mapstructure:"download" yaml:"download"`
}

var (
	global     *AppConfig
	once       sync.Once
	globalErr  error
	configPath string // 当前使用的配置文件路径
)

// DefaultDir ~/.fedisleuth/config
func DefaultDir() string {
	homedir, _ := os.UserHomeDir()
	return filepath.Join(homedir, ".fedisleuth", "config")
}

func setDefaults(v *viper.Viper) {
	homedir, _ := os.UserHomeDir()
	dataBasePath := filepath.Join(homedir, ".fedisleuth", "data", "history.db")
	v.SetDefault("env", "prod")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.color", true)
	v.SetDefault("database.path", dataBasePath)

	pf := pixelfed.DefaultConfig()
	v.SetDefault("pixelfed.enabled", pf.Enabled)
	v.SetDefault("pixelfed.instance_url", pf.InstanceURL)
	v.SetDefault("pixelfed.access_token", "")
	v.SetDefault("pixelfed.timeout", pf.Timeout)
	v.SetDefault("pixelfed.lookup_timeout", pf.LookupTimeout)
	v.SetDefault("pixelfed.page_limit", pf.PageLimit)
	v.SetDefault("pixelfed.page_delay", pf.PageDelay)
	v.SetDefault("pixelfed.max_pages", pf.MaxPages)
	v.SetDefault("pixelfed.proxy", "")
	v.SetDefault("pixelfed.user_agent", "")

	md := mastodon.DefaultConfig()
	v.SetDefault("mastodon.enabled", md.Enabled)
	v.SetDefault("mastodon.instance_url", md.InstanceURL)
	v.SetDefault("mastodon.access_token", "")
	v.SetDefault("mastodon.timeout", md.Timeout)
	v.SetDefault("mastodon.lookup_timeout", md.LookupTimeout)
	v.SetDefault("mastodon.page_limit", md.PageLimit)
	v.SetDefault("mastodon.page_delay", md.PageDelay)
	v.SetDefault("mastodon.max_pages", md.MaxPages)
	v.SetDefault("mastodon.proxy", "")
	v.SetDefault("mastodon.user_agent", "")

	bs := bluesky.DefaultConfig()
	v.SetDefault("bluesky.enabled", bs.Enabled)
	v.SetDefault("bluesky.service_url", bs.ServiceURL)
	v.SetDefault("bluesky.web_url", bs.WebURL)
	v.SetDefault("bluesky.handle", "")
	v.SetDefault("bluesky.app_password", "")
	v.SetDefault("bluesky.timeout", bs.Timeout)
	v.SetDefault("bluesky.page_limit", bs.PageLimit)
	v.SetDefault("bluesky.page_delay", bs.PageDelay)
	v.SetDefault("bluesky.max_pages", bs.MaxPages)
	v.SetDefault("bluesky.proxy", "")
	v.SetDefault("bluesky.user_agent", "")

	dl := download.DefaultConfig()
	v.SetDefault("download.base_path", dl.BasePath)
	v.SetDefault("download.max_concurrent", dl.MaxConcurrent)
	v.SetDefault("download.organize_by_date", dl.OrganizeByDate)
	v.SetDefault("download.timeout", dl.Timeout)
	v.SetDefault("download.proxy", "")
}

// Init 只加载一次全局配置；找不到配置文件时在 ~/.fedisleuth/config 下生成示例
// 可额外传入目录或具体文件路径
func Init(configPaths ...string) (*AppConfig, error) {
	once.Do(func() {
		cfg, used, err := load(true, configPaths...)
		if err != nil {
			globalErr = err
			return
		}
		configPath = used
		global = cfg
	})
	return global, globalErr
}

// Load 读取配置但不修改全局状态，也不会生成示例文件
func Load(configPaths ...string) (*AppConfig, error) {
	cfg, _, err := load(false, configPaths...)
	return cfg, err
}

func load(createExample bool, configPaths ...string) (*AppConfig, string, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath(DefaultDir())

	for _, p := range configPaths {
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			v.SetConfigFile(p)
		} else {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	used := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", fmt.Errorf("读取配置文件失败: %w", err)
		}
		if createExample {
			if err := CreateExampleConfig(); err != nil {
				return nil, "", fmt.Errorf("创建示例配置文件失败: %w", err)
			}
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("配置解析失败: %w", err)
	}
	if cfg.Download.BasePath == "" {
		cfg.Download.BasePath = download.DefaultConfig().BasePath
	}
	cfg.Download.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

func (c *AppConfig) Validate() error {
	if err := c.Pixelfed.Validate(); err != nil {
		return fmt.Errorf("pixelfed 配置不合法: %w", err)
	}
	if err := c.Mastodon.Validate(); err != nil {
		return fmt.Errorf("mastodon 配置不合法: %w", err)
	}
	if err := c.Bluesky.Validate(); err != nil {
		return fmt.Errorf("bluesky 配置不合法: %w", err)
	}
	if err := c.Download.Validate(); err != nil {
		return fmt.Errorf("download 配置不合法: %w", err)
	}
	return nil
}

// PlatformConfigs 供 core.Build 使用
func (c *AppConfig) PlatformConfigs() map[models.Platform]platform.Config {
	pf, md, bs := c.Pixelfed, c.Mastodon, c.Bluesky
	return map[models.Platform]platform.Config{
		models.Pixelfed: &pf,
		models.Mastodon: &md,
		models.Bluesky:  &bs,
	}
}

func MustInit(configPaths ...string) *AppConfig {
	cfg, err := Init(configPaths...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Get() *AppConfig {
	if global == nil {
		_, _ = Init()
	}
	return global
}

// GetConfigPath 返回当前使用的配置文件；尚未读取到配置文件时返回默认位置
func GetConfigPath() string {
	if global == nil {
		_, _ = Init()
	}
	if configPath == "" {
		return filepath.Join(DefaultDir(), "config.yaml")
	}
	return configPath
}

// Save 以 yaml 写回配置文件
func Save(cfg *AppConfig, path string) error {
	if cfg == nil {
		return fmt.Errorf("配置为空")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("验证配置失败: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	// 配置中有 token，只允许当前用户读写
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	logger.Info("配置已保存到 %s", path)
	return nil
}

func CreateExampleConfig() error {
	_, err := WriteExampleConfig(filepath.Join(DefaultDir(), "config.yaml"))
	return err
}

// WriteExampleConfig 文件已存在时不覆盖，返回是否新建了文件
func WriteExampleConfig(configFile string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return false, fmt.Errorf("创建配置目录失败: %w", err)
	}

	_, err := os.Stat(configFile)
	if err == nil {
		logger.Warn("配置文件已存在: %s，请直接编辑", configFile)
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("检查配置文件时出错: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(exampleContent), 0600); err != nil {
		return false, fmt.Errorf("写入配置文件失败: %w", err)
	}
	logger.Info("已在 %s 中创建配置文件", configFile)
	fmt.Printf("已创建示例配置文件: %s\n", configFile)
	fmt.Println("请编辑配置文件，填写各平台的 access token 或 Bluesky app password")
	return true, nil
}

const exampleContent = `# FediSleuth 配置文件
# 所有配置项都可以用环境变量覆盖，例如 FEDISLEUTH_MASTODON_ACCESS_TOKEN

log:
  level: info     # debug/info/warn/error
  file: ""        # 留空只输出到终端
  color: true

# 搜索历史数据库
# database:
#   path: "/path/to/history.db"   # 默认 ~/.fedisleuth/data/history.db

pixelfed:
  enabled: true
  instance_url: "https://pixelfed.social"
  access_token: ""   # Settings -> Applications -> Personal Access Tokens
  timeout: 60        # 秒
  lookup_timeout: 45 # 账号解析超时（秒）
  page_limit: 40
  page_delay: 100    # 毫秒
  max_pages: 120
  proxy: ""          # 如 "http://127.0.0.1:7890"

mastodon:
  enabled: true
  instance_url: "https://mastodon.social"
  access_token: ""   # Preferences -> Development -> New application
  timeout: 60
  lookup_timeout: 45
  page_limit: 40
  page_delay: 100
  max_pages: 120
  proxy: ""

bluesky:
  enabled: true
  service_url: "https://bsky.social"
  web_url: "https://bsky.app"
  handle: ""         # 如 alice.bsky.social
  app_password: ""   # Settings -> App Passwords
  timeout: 45
  page_limit: 30
  page_delay: 100
  max_pages: 120

download:
  # base_path: "/path/to/media"  # 默认 ~/Downloads/FediSleuth
  max_concurrent: 4  # 1-10
  organize_by_date: true
  timeout: 120       # 等待响应头的超时（秒），大文件下载本身不限时
`
