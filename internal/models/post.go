package models

import (
	"strings"
	"time"
)

// Post 一条抓取到的帖子，只保留展示和下载需要的字段
type Post struct {
	Platform   Platform  `json:"platform"`
	ID         string    `json:"id"` // 平台内唯一
	Author     string    `json:"author"`
	Content    string    `json:"content"` // 已去除 HTML
	CreatedAt  time.Time `json:"created_at"`
	MediaURLs  []string  `json:"media_urls"`
	MediaTypes []string  `json:"media_types"` // 与 MediaURLs 一一对应
	Likes      int       `json:"likes"`
	Shares     int       `json:"shares"`
	URL        string    `json:"url"`
}

// AddMedia 追加一个媒体，空 URL 会被忽略；保证 MediaURLs 与 MediaTypes 等长
func (p *Post) AddMedia(url, mediaType string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	p.MediaURLs = append(p.MediaURLs, url)
	p.MediaTypes = append(p.MediaTypes, mediaType)
}

func (p *Post) MediaCount() int { return len(p.MediaURLs) }

// MediaCSV 以分号连接媒体地址，导出时使用
func (p *Post) MediaCSV() string {
	return strings.Join(p.MediaURLs, "; ")
}
