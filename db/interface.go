package db

import (
	"time"

	"FediSleuth/internal/models"
)

// SearchStorage 搜索历史的存储接口，目前只有 sqlite 实现
type SearchStorage interface {
	// SaveRun 保存一次搜索及其全部分组（包括出错的分组）
	SaveRun(run *models.SearchRun, groups []*models.ResultGroup) error

	// GetRun 按保存时的顺序还原分组，run 不存在时返回 ErrRunNotFound
	GetRun(id string) (*models.SearchRun, []*models.ResultGroup, error)

	ListRuns(limit int) ([]*models.SearchRun, error)

	// SearchPosts 在历史帖子的正文和作者中查找关键词，同一帖子只返回最近一次保存的版本
	SearchPosts(keyword string, filter models.HistoryFilter, limit int) ([]*models.Post, error)

	DeleteRunsBefore(t time.Time) (int, error)

	Close() error
}
