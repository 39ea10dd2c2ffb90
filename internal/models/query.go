package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinDaysBack     = 1
	MaxDaysBack     = 3650
	DefaultDaysBack = 180
)

// SearchKind 查询类型：用户或话题标签
type SearchKind int

const (
	KindUser SearchKind = iota
	KindHashtag
)

func (k SearchKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindHashtag:
		return "hashtag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseSearchKind(s string) (SearchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "u":
		return KindUser, nil
	case "hashtag", "tag", "h":
		return KindHashtag, nil
	default:
		return 0, fmt.Errorf("unknown search kind: %q", s)
	}
}

// SearchQuery 一次搜索的参数，搜索开始后不再修改
type SearchQuery struct {
	Query    string
	Kind     SearchKind
	DaysBack int
}

// NewSearchQuery 构造查询，days 会被规整到 [1, 3650]
func NewSearchQuery(query string, kind SearchKind, days int) SearchQuery {
	return SearchQuery{
		Query:    strings.TrimSpace(query),
		Kind:     kind,
		DaysBack: ClampDaysBack(days),
	}
}

// ClampDaysBack 超出范围的天数取边界值，不报错
func ClampDaysBack(days int) int {
	if days < MinDaysBack {
		return MinDaysBack
	}
	if days > MaxDaysBack {
		return MaxDaysBack
	}
	return days
}

// CleanQuery 去掉前导的 @ 或 #
func CleanQuery(q string) string {
	q = strings.TrimSpace(q)
	q = strings.TrimPrefix(q, "@")
	q = strings.TrimPrefix(q, "#")
	return q
}

// Cutoff 返回 now - days 天
func Cutoff(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -ClampDaysBack(days))
}

// FolderName 下载目录中使用的查询片段，user 去掉 @，hashtag 去掉 #
func (q SearchQuery) FolderName() string {
	name := strings.TrimSpace(q.Query)
	switch q.Kind {
	case KindUser:
		name = strings.TrimPrefix(name, "@")
	case KindHashtag:
		name = strings.TrimPrefix(name, "#")
	}
	return SafeName(name)
}

// SafeName 把路径分隔符等字符替换掉，保证可以作为单个文件名片段
func SafeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, s)
}

func (q SearchQuery) String() string {
	prefix := "@"
	if q.Kind == KindHashtag {
		prefix = "#"
	}
	return fmt.Sprintf("%s%s (%dd)", prefix, CleanQuery(q.Query), q.DaysBack)
}
