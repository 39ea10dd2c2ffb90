package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"FediSleuth/internal/models"
	"FediSleuth/pkg/download"
)

const previewRunes = 120

// writeGroups 按平台打印结果，limit <= 0 时全部打印
func writeGroups(w io.Writer, groups []*models.ResultGroup, limit int) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		if g.Failed() {
			fmt.Fprintf(w, "== %s: %s\n", g.Label, g.Error)
			continue
		}
		fmt.Fprintf(w, "== %s: %d posts\n", g.Label, g.Count())
		for i, p := range g.Results {
			if limit > 0 && i >= limit {
				fmt.Fprintf(w, "   ... %d more\n", g.Count()-limit)
				break
			}
			writePost(w, p)
		}
	}
}

func writePost(w io.Writer, p *models.Post) {
	fmt.Fprintf(w, "[%s] %s  %s  media:%d  ♥%d  ↻%d\n",
		p.Platform.Title(), p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Author, p.MediaCount(), p.Likes, p.Shares)
	if text := preview(p.Content); text != "" {
		fmt.Fprintf(w, "   %s\n", text)
	}
	if p.URL != "" {
		fmt.Fprintf(w, "   %s\n", p.URL)
	}
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes]) + "..."
}

// progressPrinter 在同一行刷新下载进度
func progressPrinter(w io.Writer) download.ProgressFunc {
	return func(fraction float64) {
		fmt.Fprintf(w, "\r下载进度: %3.0f%%", fraction*100)
	}
}
