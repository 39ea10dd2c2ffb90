package fedi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/pkg/logger"
)

type ClientOptions struct {
	Timeout   time.Duration
	Proxy     string
	UserAgent string
}

// Options Pixelfed 与 Mastodon 共用的搜索参数
type Options struct {
	Platform      models.Platform
	InstanceURL   string
	AccessToken   string
	LookupTimeout time.Duration
	PageLimit     int
	PageDelay     time.Duration
	MaxPages      int
	Client        ClientOptions

	// NotFoundHint 账号解析为空时附加的提示
	NotFoundHint func(query, instance string) string
}

// Service 在 Client 之上实现用户/标签搜索的分页逻辑
type Service struct {
	opts   Options
	client *Client
	now    func() time.Time
}

func NewService(opts Options) *Service {
	if opts.PageLimit <= 0 {
		opts.PageLimit = 40
	}
	return &Service{
		opts:   opts,
		client: NewClient(opts.InstanceURL, strings.TrimSpace(opts.AccessToken), opts.Client),
		now:    time.Now,
	}
}

func (s *Service) InstanceURL() string { return s.client.BaseURL() }

func (s *Service) HasToken() bool { return strings.TrimSpace(s.opts.AccessToken) != "" }

func (s *Service) SearchUser(ctx context.Context, handle string, daysBack int) ([]*models.Post, error) {
	if !s.HasToken() {
		return nil, platform.ErrAuthenticationRequired
	}
	cutoff := models.Cutoff(s.now(), daysBack)
	clean := strings.TrimPrefix(strings.TrimSpace(handle), "@")
	log := logger.WithPrefix(s.opts.Platform.Title())

	log.Info("解析用户 '%s' (%s)，联邦查询可能较慢...", clean, s.InstanceURL())
	lookupCtx := ctx
	if s.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.opts.LookupTimeout)
		defer cancel()
	}
	accountID, err := s.client.LookupAccount(lookupCtx, clean)
	if err != nil {
		var he *platform.HTTPError
		if errors.As(err, &he) && s.opts.NotFoundHint != nil {
			if hint := s.opts.NotFoundHint(clean, s.InstanceURL()); hint != "" {
				return nil, fmt.Errorf("user search failed for '%s': %w. %s", clean, err, hint)
			}
		}
		return nil, fmt.Errorf("user search failed for '%s': %w", clean, err)
	}
	if accountID == "" {
		nf := &platform.UserNotFoundError{Query: clean, Instance: s.InstanceURL()}
		if s.opts.NotFoundHint != nil {
			nf.Hint = s.opts.NotFoundHint(clean, s.InstanceURL())
		}
		return nil, nf
	}
	log.Debug("用户 '%s' 的账号 ID: %s", clean, accountID)

	return s.paginate(ctx, cutoff, func(ctx context.Context, maxID string) ([]Status, error) {
		return s.client.AccountStatuses(ctx, accountID, s.opts.PageLimit, maxID)
	})
}

func (s *Service) SearchHashtag(ctx context.Context, tag string, daysBack int) ([]*models.Post, error) {
	if !s.HasToken() {
		return nil, platform.ErrAuthenticationRequired
	}
	cutoff := models.Cutoff(s.now(), daysBack)
	clean := strings.TrimPrefix(strings.TrimSpace(tag), "#")

	return s.paginate(ctx, cutoff, func(ctx context.Context, maxID string) ([]Status, error) {
		return s.client.TagTimeline(ctx, clean, s.opts.PageLimit, maxID)
	})
}

func (s *Service) paginate(ctx context.Context, cutoff time.Time, fetch func(context.Context, string) ([]Status, error)) ([]*models.Post, error) {
	pager := &platform.Pager[Status]{
		Tag:      s.opts.Platform.Title(),
		Cutoff:   cutoff,
		MaxPages: s.opts.MaxPages,
		Delay:    s.opts.PageDelay,
		Fetch: func(ctx context.Context, cursor string) (platform.Page[Status], error) {
			statuses, err := fetch(ctx, cursor)
			if err != nil {
				return platform.Page[Status]{}, err
			}
			return platform.Page[Status]{Items: statuses, Next: nextMaxID(statuses)}, nil
		},
		Convert: s.convert,
	}
	return pager.Run(ctx)
}

// nextMaxID 页内最后一个有 id 的帖子作为下一页的 max_id
func nextMaxID(statuses []Status) string {
	for i := len(statuses) - 1; i >= 0; i-- {
		if statuses[i].ID != "" {
			return statuses[i].ID
		}
	}
	return ""
}

func (s *Service) convert(st Status) (*models.Post, time.Time, bool) {
	if st.ID == "" || strings.TrimSpace(st.CreatedAt) == "" {
		return nil, time.Time{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(st.CreatedAt))
	if err != nil {
		return nil, time.Time{}, false
	}
	createdAt = createdAt.UTC()

	post := &models.Post{
		Platform:  s.opts.Platform,
		ID:        st.ID,
		Author:    accountName(st.Account),
		Content:   StripHTML(st.Content),
		CreatedAt: createdAt,
		Likes:     st.FavouritesCount,
		Shares:    st.ReblogsCount,
		URL:       strings.TrimSpace(st.URL),
	}
	for _, m := range st.MediaAttachments {
		post.AddMedia(m.URL, m.Type)
	}
	if post.URL == "" {
		post.URL = s.fallbackURL(st)
	}
	return post, createdAt, true
}

func (s *Service) fallbackURL(st Status) string {
	username := strings.TrimPrefix(st.Account.Username, "@")
	if username == "" {
		username = "unknown"
	}
	return fmt.Sprintf("%s/@%s/%s", s.InstanceURL(), username, st.ID)
}

func accountName(a Account) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	if a.Username != "" {
		return a.Username
	}
	return "Unknown"
}
