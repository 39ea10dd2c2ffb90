package platform

import (
	"context"
	"fmt"

	"FediSleuth/internal/models"
)

// Platform 平台接口，Pixelfed/Mastodon/Bluesky 都需实现
type Platform interface {
	Name() string

	Kind() models.Platform

	// Label 展示用名称，例如 "Mastodon (https://mastodon.social)"
	Label() string

	// IsEnabled 对应配置中的 enabled 开关
	IsEnabled() bool

	// IsAuthenticated 凭据是否齐全（不做网络校验）
	IsAuthenticated() bool

	SearchUser(ctx context.Context, handle string, daysBack int) ([]*models.Post, error)

	SearchHashtag(ctx context.Context, tag string, daysBack int) ([]*models.Post, error)

	GetConfig() Config
}

type Config interface {
	Validate() error
}

// Search 按查询类型分发到 SearchUser 或 SearchHashtag
func Search(ctx context.Context, p Platform, q models.SearchQuery) ([]*models.Post, error) {
	days := models.ClampDaysBack(q.DaysBack)
	switch q.Kind {
	case models.KindUser:
		return p.SearchUser(ctx, q.Query, days)
	case models.KindHashtag:
		return p.SearchHashtag(ctx, q.Query, days)
	default:
		return nil, fmt.Errorf("unsupported search kind: %s", q.Kind)
	}
}
