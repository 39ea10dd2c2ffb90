package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var runID, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "把一次已保存搜索导出为 csv 或 json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = fmt.Sprintf("fedisleuth_%s.%s", runID, format)
			}
			app, err := c.openApp()
			if err != nil {
				return err
			}
			if err := app.ExportRun(cmd.Context(), runID, format, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出到 %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&runID, "run", "r", "", "搜索记录 ID")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "导出格式：csv 或 json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件，默认 fedisleuth_<run>.<format>")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
