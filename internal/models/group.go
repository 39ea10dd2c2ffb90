package models

import (
	"sort"
	"time"
)

// ResultGroup 单个平台一次搜索的结果：要么是帖子列表，要么是错误文本
type ResultGroup struct {
	Platform Platform `json:"platform"`
	Label    string   `json:"label"`
	Results  []*Post  `json:"results"`
	Error    string   `json:"error,omitempty"`
}

// NewResultGroup 成功分组，结果按时间倒序
func NewResultGroup(p Platform, label string, results []*Post) *ResultGroup {
	sorted := make([]*Post, 0, len(results))
	for _, r := range results {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	SortNewestFirst(sorted)
	return &ResultGroup{Platform: p, Label: label, Results: sorted}
}

// NewErrorGroup 出错分组，结果为空
func NewErrorGroup(p Platform, label, errText string) *ResultGroup {
	return &ResultGroup{Platform: p, Label: label, Results: []*Post{}, Error: errText}
}

func (g *ResultGroup) Failed() bool { return g.Error != "" }

func (g *ResultGroup) Count() int { return len(g.Results) }

// SortNewestFirst 按 CreatedAt 倒序，时间相同时保持原顺序
func SortNewestFirst(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// SearchRun 一次已保存的搜索记录
type SearchRun struct {
	ID        string
	Query     SearchQuery
	StartedAt time.Time
	Total     int
	Failed    int
}
