package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"FediSleuth/config"
	"FediSleuth/internal/core"
	"FediSleuth/pkg/logger"
)

// cli 命令之间共享的状态
type cli struct {
	cfgFile  string
	logLevel string
	quiet    bool

	cfg *config.AppConfig
	app *core.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "fedisleuth",
		Short:         "在 Pixelfed、Mastodon、Bluesky 上搜索用户或话题并批量下载媒体",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "配置文件路径（默认 ~/.fedisleuth/config/config.yaml）")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "覆盖配置中的日志级别")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "不输出日志")

	root.AddCommand(
		newSearchCmd(c),
		newDownloadCmd(c),
		newHistoryCmd(c),
		newExportCmd(c),
		newConfigCmd(c),
	)
	return root
}

// loadConfig 读取配置并初始化日志
func (c *cli) loadConfig() (*config.AppConfig, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Init(c.cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	logger.InitWithFile(level, cfg.Log.Color, cfg.Log.File)
	if c.quiet {
		logger.SetOutput(io.Discard)
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *cli) openApp() (*core.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	dl := cfg.Download
	app, err := core.NewApp(cfg.Database.Path, cfg.PlatformConfigs(), &dl)
	if err != nil {
		return nil, fmt.Errorf("初始化失败: %w", err)
	}
	c.app = app
	return app, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
