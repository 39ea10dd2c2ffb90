package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"FediSleuth/internal/models"
)

type searchFlags struct {
	user      string
	tag       string
	days      int
	platforms string
	download  bool
	save      bool
	show      int
	asJSON    bool
}

func newSearchCmd(c *cli) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "搜索用户或话题标签",
		Example: `  fedisleuth search --user alice@pixelfed.social --days 30
  fedisleuth search --tag photography --platforms mastodon,bluesky --download`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			sel, err := f.selection()
			if err != nil {
				return err
			}

			app, err := c.openApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out, err := app.Search(ctx, q, sel, f.save)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f.asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out.Groups); err != nil {
					return err
				}
			} else {
				writeGroups(w, out.Groups, f.show)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), out.Summary.String())
			if f.save {
				fmt.Fprintf(cmd.ErrOrStderr(), "run: %s\n", out.Run.ID)
			}

			if !f.download {
				return nil
			}
			root, err := app.Download(ctx, &q, out.Groups, progressPrinter(cmd.ErrOrStderr()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已下载到 %s\n", root)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.user, "user", "u", "", "用户名，如 alice@pixelfed.social")
	cmd.Flags().StringVarP(&f.tag, "tag", "t", "", "话题标签，不带 #")
	cmd.Flags().IntVarP(&f.days, "days", "d", models.DefaultDaysBack, "回溯天数（1-3650）")
	cmd.Flags().StringVarP(&f.platforms, "platforms", "p", "", "逗号分隔的平台列表，默认全部")
	cmd.Flags().BoolVar(&f.download, "download", false, "搜索完成后下载全部媒体")
	cmd.Flags().BoolVar(&f.save, "save", true, "把结果写入搜索历史")
	cmd.Flags().IntVar(&f.show, "show", 10, "每个平台最多打印多少条，0 表示全部")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "以 JSON 输出结果")
	cmd.MarkFlagsMutuallyExclusive("user", "tag")
	cmd.MarkFlagsOneRequired("user", "tag")
	return cmd
}

func (f *searchFlags) query() (models.SearchQuery, error) {
	switch {
	case f.user != "" && f.tag != "":
		return models.SearchQuery{}, errors.New("--user 和 --tag 只能指定一个")
	case f.user != "":
		return models.NewSearchQuery(f.user, models.KindUser, f.days), nil
	case f.tag != "":
		return models.NewSearchQuery(f.tag, models.KindHashtag, f.days), nil
	default:
		return models.SearchQuery{}, errors.New("需要 --user 或 --tag")
	}
}

func (f *searchFlags) selection() (models.Selection, error) {
	sel, err := models.ParseSelection(f.platforms)
	if err != nil {
		return sel, err
	}
	if !sel.Any() {
		return sel, errors.New("--platforms 没有选中任何平台")
	}
	return sel, nil
}
