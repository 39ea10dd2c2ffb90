package export

import (
	"FediSleuth/internal/models"
)

// Exporter 导出器接口
type Exporter interface {
	// Export 导出帖子到指定文件
	Export(posts []*models.Post, outputPath string) error
}
