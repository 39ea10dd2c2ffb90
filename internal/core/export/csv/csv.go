package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"FediSleuth/internal/models"
)

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(posts []*models.Post, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("写入 BOM 失败: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"平台", "帖子ID", "作者", "内容", "发布时间",
		"媒体数量", "媒体地址", "点赞", "转发", "URL",
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for _, p := range posts {
		record := []string{
			p.Platform.String(),
			p.ID,
			p.Author,
			truncate(p.Content, 500),
			formatTime(p.CreatedAt),
			strconv.Itoa(p.MediaCount()),
			p.MediaCSV(),
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.Shares),
			p.URL,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写入数据失败: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// truncate 按字符截断，避免切断多字节字符
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
