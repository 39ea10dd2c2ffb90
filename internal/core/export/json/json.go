package json

import (
	"encoding/json"
	"fmt"
	"os"

	"FediSleuth/internal/models"
)

type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(posts []*models.Post, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")  // 格式化输出
	encoder.SetEscapeHTML(false) // 帖子链接里有 &，不转义

	if posts == nil {
		posts = []*models.Post{}
	}
	data := map[string]interface{}{
		"total": len(posts),
		"posts": posts,
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("写入 JSON 失败: %w", err)
	}

	return nil
}
