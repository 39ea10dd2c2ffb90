package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"FediSleuth/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "管理配置文件",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "生成示例配置文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfgFile
			if path == "" {
				path = filepath.Join(config.DefaultDir(), "config.yaml")
			}
			created, err := config.WriteExampleConfig(path)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "配置文件已存在: %s\n", path)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "打印生效的配置（隐藏密钥）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(redact(*cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "打印当前使用的配置文件路径",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.loadConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func redact(cfg config.AppConfig) config.AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "******"
	}
	cfg.Pixelfed.AccessToken = mask(cfg.Pixelfed.AccessToken)
	cfg.Mastodon.AccessToken = mask(cfg.Mastodon.AccessToken)
	cfg.Bluesky.AppPassword = mask(cfg.Bluesky.AppPassword)
	return cfg
}
