package bluesky

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FediSleuth/internal/core"
	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/pkg/logger"
)

type Adapter struct {
	config *Config
	client *client
	webURL string
	now    func() time.Time
}

func NewAdapter(config *Config) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	base := core.NewHTTPClient(time.Duration(config.Timeout)*time.Second, config.Proxy)
	base.Transport = core.WithUserAgent(base.Transport, config.UserAgent)

	return &Adapter{
		config: config,
		client: &client{serviceURL: platform.NormalizeBaseURL(config.ServiceURL), base: base},
		webURL: platform.NormalizeBaseURL(config.WebURL),
		now:    time.Now,
	}, nil
}

func (a *Adapter) Name() string { return models.Bluesky.String() }

func (a *Adapter) Kind() models.Platform { return models.Bluesky }

func (a *Adapter) Label() string { return "Bluesky" }

func (a *Adapter) IsEnabled() bool { return a.config.Enabled }

func (a *Adapter) IsAuthenticated() bool { return a.config.hasCredentials() }

func (a *Adapter) GetConfig() platform.Config { return a.config }

func (a *Adapter) SearchUser(ctx context.Context, handle string, daysBack int) ([]*models.Post, error) {
	if !a.IsAuthenticated() {
		return nil, platform.ErrAuthenticationRequired
	}
	cutoff := models.Cutoff(a.now(), daysBack)
	actor := strings.TrimPrefix(strings.TrimSpace(handle), "@")

	sess, err := a.client.createSession(ctx, a.config.Handle, a.config.AppPassword)
	if err != nil {
		return nil, err
	}
	logger.WithPrefix("Bluesky").Info("获取 %s 的作者时间线", actor)

	return a.paginate(ctx, cutoff, func(ctx context.Context, cursor string) (platform.Page[PostView], error) {
		resp, err := sess.authorFeed(ctx, actor, a.config.PageLimit, cursor)
		if err != nil {
			return platform.Page[PostView]{}, err
		}
		items := make([]PostView, 0, len(resp.Feed))
		for _, item := range resp.Feed {
			items = append(items, item.Post)
		}
		return platform.Page[PostView]{Items: items, Next: resp.Cursor}, nil
	})
}

func (a *Adapter) SearchHashtag(ctx context.Context, tag string, daysBack int) ([]*models.Post, error) {
	if !a.IsAuthenticated() {
		return nil, platform.ErrAuthenticationRequired
	}
	cutoff := models.Cutoff(a.now(), daysBack)
	q := "#" + strings.TrimPrefix(strings.TrimSpace(tag), "#")

	sess, err := a.client.createSession(ctx, a.config.Handle, a.config.AppPassword)
	if err != nil {
		return nil, err
	}
	logger.WithPrefix("Bluesky").Info("搜索话题 %s", q)

	return a.paginate(ctx, cutoff, func(ctx context.Context, cursor string) (platform.Page[PostView], error) {
		resp, err := sess.searchPosts(ctx, q, a.config.PageLimit, cursor)
		if err != nil {
			return platform.Page[PostView]{}, err
		}
		return platform.Page[PostView]{Items: resp.Posts, Next: resp.Cursor}, nil
	})
}

func (a *Adapter) paginate(ctx context.Context, cutoff time.Time, fetch func(context.Context, string) (platform.Page[PostView], error)) ([]*models.Post, error) {
	pager := &platform.Pager[PostView]{
		Tag:      models.Bluesky.Title(),
		Cutoff:   cutoff,
		MaxPages: a.config.MaxPages,
		Delay:    time.Duration(a.config.PageDelay) * time.Millisecond,
		Fetch:    fetch,
		Convert:  a.convert,
	}
	return pager.Run(ctx)
}

// createdAt 优先取 record.createdAt，缺失时退回 indexedAt
func createdAt(pv PostView) (time.Time, bool) {
	src := strings.TrimSpace(pv.Record.CreatedAt)
	if src == "" {
		src = strings.TrimSpace(pv.IndexedAt)
	}
	if src == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, src)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (a *Adapter) convert(pv PostView) (*models.Post, time.Time, bool) {
	ts, ok := createdAt(pv)
	if !ok {
		return nil, time.Time{}, false
	}

	author := pv.Author.DisplayName
	if author == "" {
		author = pv.Author.Handle
	}
	if author == "" {
		author = "Unknown"
	}

	post := &models.Post{
		Platform:  models.Bluesky,
		ID:        pv.URI,
		Author:    author,
		Content:   strings.TrimSpace(pv.Record.Text),
		CreatedAt: ts,
		Likes:     pv.LikeCount,
		Shares:    pv.RepostCount,
		URL:       WebURL(a.webURL, pv.Author.Handle, pv.URI),
	}
	if pv.Embed != nil && pv.Embed.Embed != nil {
		pv.Embed.Embed.appendTo(post)
	}
	return post, ts, true
}

// WebURL 由 AT-URI 的 rkey 生成 {web}/profile/{handle}/post/{rkey}
func WebURL(web, handle, uri string) string {
	rkey := "post"
	if i := strings.LastIndex(uri, "/"); i >= 0 && i < len(uri)-1 {
		rkey = uri[i+1:]
	} else if uri != "" && i < 0 {
		rkey = uri
	}
	return fmt.Sprintf("%s/profile/%s/post/%s", web, handle, rkey)
}
