package fedi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"FediSleuth/internal/core"
	"FediSleuth/internal/platform"
)

const maxErrorBody = 4096

// Client Mastodon 兼容 REST API 的最小客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient token 非空时通过 oauth2 transport 附加 Bearer 头，底层复用共享连接池
func NewClient(baseURL, token string, opts ClientOptions) *Client {
	base := core.NewHTTPClient(opts.Timeout, opts.Proxy)
	var rt http.RoundTripper = core.WithUserAgent(base.Transport, opts.UserAgent)
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	return &Client{
		baseURL:    platform.NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: base.Timeout, Transport: rt},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// LookupAccount 通过 /api/v2/search?resolve=true 解析账号，返回空字符串表示未找到
func (c *Client) LookupAccount(ctx context.Context, handle string) (string, error) {
	params := accountSearchParams{Q: handle, Type: "accounts", Resolve: true, Limit: 1}
	var resp searchResponse
	if err := c.getJSON(ctx, "/api/v2/search", params, &resp, handle, false); err != nil {
		return "", err
	}
	for _, acc := range resp.Accounts {
		if acc.ID != "" {
			return acc.ID, nil
		}
	}
	return "", nil
}

// AccountStatuses 取用户时间线的一页
func (c *Client) AccountStatuses(ctx context.Context, accountID string, limit int, maxID string) ([]Status, error) {
	path := "/api/v1/accounts/" + url.PathEscape(accountID) + "/statuses"
	var statuses []Status
	err := c.getJSON(ctx, path, timelineParams{Limit: limit, MaxID: maxID}, &statuses, accountID, false)
	return statuses, err
}

// TagTimeline 取话题标签时间线的一页
func (c *Client) TagTimeline(ctx context.Context, tag string, limit int, maxID string) ([]Status, error) {
	path := "/api/v1/timelines/tag/" + url.PathEscape(tag)
	var statuses []Status
	err := c.getJSON(ctx, path, timelineParams{Limit: limit, MaxID: maxID}, &statuses, tag, true)
	return statuses, err
}

func (c *Client) getJSON(ctx context.Context, path string, params interface{}, out interface{}, target string, hashtag bool) error {
	values, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}
	reqURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return platform.ClassifyRequestError(err, target, hashtag)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &platform.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if platform.IsTimeout(err) {
			return &platform.TimeoutError{Target: target, Hashtag: hashtag, Err: err}
		}
		return &platform.DecodeError{What: path, Err: err}
	}
	return nil
}
