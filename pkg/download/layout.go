package download

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"FediSleuth/internal/models"
)

const defaultExt = "jpg"

// Task 一个待下载的媒体文件
type Task struct {
	Platform   models.Platform
	PostID     string
	MediaIndex int
	URL        string
	Path       string
}

// RootPath base[/YYYY-MM-DD]/{kind}-{query}-{days}d-HHMMSS，没有搜索上下文时为 search-any-HHMMSS
func RootPath(cfg *Config, sc *models.SearchQuery, now time.Time) string {
	root := cfg.BasePath
	if cfg.OrganizeByDate {
		root = filepath.Join(root, now.Format("2006-01-02"))
	}

	folder, days := "search", "any"
	if sc != nil {
		folder = fmt.Sprintf("%s-%s", sc.Kind, sc.FolderName())
		days = fmt.Sprintf("%dd", sc.DaysBack)
	}
	return filepath.Join(root, fmt.Sprintf("%s-%s-%s", folder, days, now.Format("150405")))
}

// Filename {post_id}_{index+1:03}.{ext}
func Filename(postID string, mediaIndex int, mediaURL string) string {
	return fmt.Sprintf("%s_%03d.%s", models.SafeName(postID), mediaIndex+1, Extension(mediaURL))
}

// Extension 取 URL 路径的扩展名，没有时为 jpg
func Extension(mediaURL string) string {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" || len(ext) > 5 || !isAlnum(ext) {
		return defaultExt
	}
	return strings.ToLower(ext)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Flatten 丢弃出错分组并合并结果
func Flatten(groups []*models.ResultGroup) ([]*models.Post, int) {
	var posts []*models.Post
	total := 0
	for _, g := range groups {
		if g == nil || g.Failed() {
			continue
		}
		for _, p := range g.Results {
			if p == nil {
				continue
			}
			posts = append(posts, p)
			total += p.MediaCount()
		}
	}
	return posts, total
}

// BuildTasks 为每个媒体 URL 生成下载任务，dirFor 返回平台子目录
func BuildTasks(posts []*models.Post, dirFor func(models.Platform) string) []Task {
	var tasks []Task
	for _, p := range posts {
		dir := dirFor(p.Platform)
		for i, u := range p.MediaURLs {
			tasks = append(tasks, Task{
				Platform:   p.Platform,
				PostID:     p.ID,
				MediaIndex: i,
				URL:        u,
				Path:       filepath.Join(dir, Filename(p.ID, i, u)),
			})
		}
	}
	return tasks
}
