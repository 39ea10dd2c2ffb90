package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/pkg/logger"
)

const (
	SkippedText  = "Skipped (not selected)"
	DisabledText = "Disabled in settings"
)

// Orchestrator 并发执行各平台搜索，单个平台失败只体现在自己的分组里
type Orchestrator struct {
	platforms [models.PlatformCount]platform.Platform
}

func NewOrchestrator(platforms [models.PlatformCount]platform.Platform) *Orchestrator {
	return &Orchestrator{platforms: platforms}
}

func (o *Orchestrator) Platform(kind models.Platform) platform.Platform {
	if !kind.Valid() {
		return nil
	}
	return o.platforms[kind]
}

// Run 返回的分组始终按 Pixelfed、Mastodon、Bluesky 的顺序排列，每个平台一组
func (o *Orchestrator) Run(ctx context.Context, q models.SearchQuery, sel models.Selection) []*models.ResultGroup {
	var slots [models.PlatformCount]*models.ResultGroup
	var g errgroup.Group

	for _, kind := range models.AllPlatforms {
		kind := kind
		p := o.platforms[kind]
		label := kind.Title()
		if p != nil {
			label = p.Label()
		}

		if !sel.Has(kind) {
			slots[kind] = models.NewErrorGroup(kind, label, SkippedText)
			continue
		}
		if p == nil || !p.IsEnabled() {
			slots[kind] = models.NewErrorGroup(kind, label, DisabledText)
			continue
		}

		g.Go(func() error {
			start := time.Now()
			posts, err := platform.Search(ctx, p, q)
			if err != nil {
				logger.WithPrefix(kind.Title()).Warn("搜索 %s 失败: %v", q, err)
				slots[kind] = models.NewErrorGroup(kind, label, err.Error())
				return nil
			}
			logger.WithPrefix(kind.Title()).Info("搜索 %s 完成: %d 条, 耗时 %v", q, len(posts), time.Since(start).Round(time.Millisecond))
			slots[kind] = models.NewResultGroup(kind, label, posts)
			return nil
		})
	}
	_ = g.Wait()

	return slots[:]
}

// Summary 搜索结果的状态摘要，仅用于展示
type Summary struct {
	Total      int
	Errored    int
	AnyEnabled bool
	Parts      []string
}

func Summarize(groups []*models.ResultGroup) Summary {
	var s Summary
	for _, g := range groups {
		if g == nil {
			continue
		}
		switch {
		case g.Error == SkippedText:
			s.Parts = append(s.Parts, fmt.Sprintf("%s skipped", g.Label))
		case g.Error == DisabledText:
			s.Parts = append(s.Parts, fmt.Sprintf("%s disabled", g.Label))
		case g.Failed():
			s.AnyEnabled = true
			s.Errored++
			s.Parts = append(s.Parts, fmt.Sprintf("%s ⚠️ %s", g.Label, g.Error))
		default:
			s.AnyEnabled = true
			s.Total += g.Count()
			s.Parts = append(s.Parts, fmt.Sprintf("%s: %d posts", g.Label, g.Count()))
		}
	}
	return s
}

func (s Summary) String() string {
	if !s.AnyEnabled {
		return "Selected platforms are disabled in Settings."
	}
	suffix := ""
	if len(s.Parts) > 0 {
		suffix = " [" + strings.Join(s.Parts, " | ") + "]"
	}
	if s.Total > 0 {
		return fmt.Sprintf("Fetched %d posts%s", s.Total, suffix)
	}
	return "No posts found" + suffix
}
