package core

import (
	"context"
	"fmt"
	"time"

	storage "FediSleuth/db"
	"FediSleuth/internal/ir"
	"FediSleuth/internal/models"
	"FediSleuth/pkg/logger"
)

// Searcher 在已保存的搜索历史中做关键词检索
type Searcher struct {
	db storage.SearchStorage
}

func NewSearcher(db storage.SearchStorage) *Searcher {
	return &Searcher{db: db}
}

// SearchOptions 历史检索参数
type SearchOptions struct {
	// 关键词，匹配正文和作者；为空时按时间返回全部
	Keyword string
	// 平台过滤，为空表示全部
	Platforms []models.Platform
	// 只返回最近 Within 时间内发布的帖子，0 表示不限制
	Within time.Duration
	// 只返回 Until 之前发布的帖子，零值表示不限制
	Until time.Time
	Limit int
	// 关键词不为空时按相关度重排：bm25 或 tfidf，为空保持时间倒序
	Rank string
}

func (s *Searcher) Search(ctx context.Context, opts SearchOptions) ([]*models.Post, error) {
	if s.db == nil {
		return nil, fmt.Errorf("未配置历史数据库")
	}

	filter := models.HistoryFilter{Platforms: opts.Platforms}
	if opts.Within > 0 {
		since := time.Now().UTC().Add(-opts.Within)
		filter.Since = &since
	}
	if !opts.Until.IsZero() {
		until := opts.Until.UTC()
		filter.Until = &until
	}

	logger.Info("检索历史帖子: keyword=%q, platforms=%v, limit=%d", opts.Keyword, opts.Platforms, opts.Limit)
	posts, err := s.db.SearchPosts(opts.Keyword, filter, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("关键词搜索失败: %w", err)
	}
	if opts.Rank == "" || opts.Keyword == "" {
		return posts, nil
	}
	return ir.Rank(posts, opts.Keyword, opts.Rank)
}
