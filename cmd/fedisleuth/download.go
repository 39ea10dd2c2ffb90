package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCmd(c *cli) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "重新下载一次已保存搜索中的全部媒体",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApp()
			if err != nil {
				return err
			}
			root, err := app.DownloadRun(cmd.Context(), runID, progressPrinter(cmd.ErrOrStderr()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已下载到 %s\n", root)
			return nil
		},
	}
	cmd.Flags().StringVarP(&runID, "run", "r", "", "搜索记录 ID（见 history list）")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
