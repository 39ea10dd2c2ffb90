package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"FediSleuth/internal/core"
	"FediSleuth/internal/models"
)

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "查看和检索搜索历史",
	}
	cmd.AddCommand(newHistoryListCmd(c), newHistorySearchCmd(c), newHistoryPruneCmd(c))
	return cmd
}

func newHistoryListCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出最近的搜索",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApp()
			if err != nil {
				return err
			}
			runs, err := app.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tQUERY\tSTARTED\tPOSTS\tFAILED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.Query, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Total, r.Failed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "最多显示多少条")
	return cmd
}

func newHistorySearchCmd(c *cli) *cobra.Command {
	var (
		platforms string
		within    time.Duration
		limit     int
		rank      string
		until     string
	)
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "在已保存的帖子中按关键词检索",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := core.SearchOptions{Within: within, Limit: limit, Rank: rank}
			if len(args) == 1 {
				opts.Keyword = args[0]
			}
			if until != "" {
				ts, err := time.ParseInLocation("2006-01-02", until, time.Local)
				if err != nil {
					return fmt.Errorf("--until 需要 YYYY-MM-DD 格式: %w", err)
				}
				opts.Until = ts
			}
			if strings.TrimSpace(platforms) != "" {
				sel, err := models.ParseSelection(platforms)
				if err != nil {
					return err
				}
				for _, p := range models.AllPlatforms {
					if sel.Has(p) {
						opts.Platforms = append(opts.Platforms, p)
					}
				}
			}

			app, err := c.openApp()
			if err != nil {
				return err
			}
			posts, err := app.SearchHistory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, p := range posts {
				writePost(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d posts\n", len(posts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&platforms, "platforms", "p", "", "逗号分隔的平台列表")
	cmd.Flags().DurationVar(&within, "within", 0, "只看最近这段时间发布的帖子，如 720h")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "最多返回多少条")
	cmd.Flags().StringVar(&rank, "rank", "", "按相关度排序：bm25 或 tfidf，默认按时间")
	cmd.Flags().StringVar(&until, "until", "", "只看该日期之前发布的帖子，如 2024-06-01")
	return cmd
}

func newHistoryPruneCmd(c *cli) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "删除早于指定时间的搜索记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApp()
			if err != nil {
				return err
			}
			n, err := app.PruneHistory(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已删除 %d 条记录\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "删除多久以前的记录")
	return cmd
}
