package bluesky

import (
	"encoding/json"
	"strings"

	"FediSleuth/internal/models"
	"FediSleuth/pkg/logger"
)

const (
	typeImages          = "app.bsky.embed.images#view"
	typeExternal        = "app.bsky.embed.external#view"
	typeVideo           = "app.bsky.embed.video#view"
	typeRecordWithMedia = "app.bsky.embed.recordWithMedia#view"
)

// Embed 帖子附件的封闭联合类型，未识别的 $type 解码为 UnknownEmbed
type Embed interface {
	appendTo(p *models.Post)
}

type ImagesEmbed struct {
	Images []struct {
		Thumb    string `json:"thumb"`
		Fullsize string `json:"fullsize"`
		Alt      string `json:"alt"`
	} `json:"images"`
}

type ExternalEmbed struct {
	External struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"external"`
}

type VideoEmbed struct {
	Playlist  string `json:"playlist"`
	Thumbnail string `json:"thumbnail"`
}

// RecordWithMediaEmbed 引用帖子附带的媒体，只展开一层
type RecordWithMediaEmbed struct {
	Media Embed
}

type UnknownEmbed struct {
	Type string
}

func (e *ImagesEmbed) appendTo(p *models.Post) {
	for _, img := range e.Images {
		p.AddMedia(img.Fullsize, "image")
	}
}

func (e *ExternalEmbed) appendTo(p *models.Post) { p.AddMedia(e.External.URI, "external") }

func (e *VideoEmbed) appendTo(p *models.Post) { p.AddMedia(e.Playlist, "video") }

func (e *RecordWithMediaEmbed) appendTo(p *models.Post) {
	if e.Media != nil {
		e.Media.appendTo(p)
	}
}

func (e *UnknownEmbed) appendTo(*models.Post) {}

// EmbedView 包装 Embed 以便直接作为 JSON 字段解码
type EmbedView struct {
	Embed Embed
}

// UnmarshalJSON 不会返回错误：结构不符合预期的附件按 UnknownEmbed 处理，不影响同页其他帖子
func (v *EmbedView) UnmarshalJSON(data []byte) error {
	v.Embed = decodeEmbed(data, true)
	return nil
}

func decodeEmbed(data []byte, allowNested bool) Embed {
	var head struct {
		Type  string          `json:"$type"`
		Media json.RawMessage `json:"media"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		logger.WithPrefix("Bluesky").Debug("无法解析 embed: %v", err)
		return &UnknownEmbed{}
	}

	var e Embed
	switch strings.TrimSpace(head.Type) {
	case typeImages:
		e = &ImagesEmbed{}
	case typeExternal:
		e = &ExternalEmbed{}
	case typeVideo:
		e = &VideoEmbed{}
	case typeRecordWithMedia:
		if !allowNested || len(head.Media) == 0 {
			return &UnknownEmbed{Type: head.Type}
		}
		return &RecordWithMediaEmbed{Media: decodeEmbed(head.Media, false)}
	default:
		return &UnknownEmbed{Type: head.Type}
	}

	if err := json.Unmarshal(data, e); err != nil {
		logger.WithPrefix("Bluesky").Debug("embed %s 结构异常，忽略: %v", head.Type, err)
		return &UnknownEmbed{Type: head.Type}
	}
	return e
}
