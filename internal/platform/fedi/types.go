package fedi

// Status Mastodon 兼容 API 返回的帖子（Pixelfed 与 Mastodon 结构一致）
type Status struct {
	ID               string            `json:"id"`
	CreatedAt        string            `json:"created_at"`
	Content          string            `json:"content"`
	URL              string            `json:"url"`
	Account          Account           `json:"account"`
	MediaAttachments []MediaAttachment `json:"media_attachments"`
	FavouritesCount  int               `json:"favourites_count"`
	ReblogsCount     int               `json:"reblogs_count"`
}

type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

type MediaAttachment struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

type searchResponse struct {
	Accounts []Account `json:"accounts"`
}

// accountSearchParams /api/v2/search 的查询参数
type accountSearchParams struct {
	Q       string `url:"q"`
	Type    string `url:"type"`
	Resolve bool   `url:"resolve"`
	Limit   int    `url:"limit"`
}

// timelineParams 时间线分页参数，MaxID 为降序游标
type timelineParams struct {
	Limit int    `url:"limit,omitempty"`
	MaxID string `url:"max_id,omitempty"`
}
