package models

import "time"

// HistoryFilter 历史帖子检索条件，零值表示不限制
type HistoryFilter struct {
	Platforms []Platform
	Since     *time.Time
	Until     *time.Time
}
