package platform

import (
	"context"
	"time"

	"FediSleuth/internal/models"
	"FediSleuth/pkg/logger"
)

const (
	// DefaultMaxPages 每次搜索最多请求的页数，防止热门标签无限翻页
	DefaultMaxPages = 120
	// DefaultPageDelay 翻页间隔
	DefaultPageDelay = 100 * time.Millisecond
)

// Page 一页原始数据和下一页游标（空字符串表示没有下一页）
type Page[T any] struct {
	Items []T
	Next  string
}

// Pager 三个平台共用的分页循环，只有取页和转换逻辑不同
type Pager[T any] struct {
	Tag      string
	Cutoff   time.Time
	MaxPages int
	Delay    time.Duration

	// Fetch 用游标取一页，第一页 cursor 为空
	Fetch func(ctx context.Context, cursor string) (Page[T], error)

	// Convert 解析单条数据；ok=false 表示时间戳无法解析，跳过该条
	// post 可以为 nil（没有可用内容），此时只参与截止时间判断
	Convert func(item T) (post *models.Post, createdAt time.Time, ok bool)
}

// Run 翻页直到：空页、出现早于 Cutoff 的帖子（整页处理完再停）、游标缺失或重复、
// 一页没有接收任何帖子、或达到 MaxPages
func (p *Pager[T]) Run(ctx context.Context) ([]*models.Post, error) {
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	log := logger.WithPrefix(p.Tag)

	var results []*models.Post
	cursor := ""
	page := 0

	for {
		if page >= maxPages {
			log.Warn("已达到 %d 页上限，停止翻页", maxPages)
			break
		}
		page++

		pg, err := p.Fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if len(pg.Items) == 0 {
			log.Debug("第 %d 页为空，停止翻页", page)
			break
		}

		foundOld := false
		accepted := 0
		for _, item := range pg.Items {
			post, createdAt, ok := p.Convert(item)
			if !ok {
				continue
			}
			if createdAt.Before(p.Cutoff) {
				foundOld = true
				continue
			}
			if post == nil {
				continue
			}
			results = append(results, post)
			accepted++
		}
		log.Debug("第 %d 页: %d 条, 接收 %d 条, 累计 %d 条", page, len(pg.Items), accepted, len(results))

		if foundOld {
			break
		}
		if pg.Next == "" || pg.Next == cursor {
			break
		}
		if accepted == 0 {
			break
		}
		cursor = pg.Next

		if p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	log.Info("翻页结束，共 %d 页, %d 条帖子", page, len(results))
	return results, nil
}
