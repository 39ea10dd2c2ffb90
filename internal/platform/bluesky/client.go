package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"FediSleuth/internal/platform"
)

const maxErrorBody = 4096

type client struct {
	serviceURL string
	base       *http.Client
}

// session 登录后携带 accessJwt 的客户端
type session struct {
	c    *client
	http *http.Client
}

// createSession 用 handle + app password 换取 accessJwt，每次搜索登录一次
func (c *client) createSession(ctx context.Context, handle, password string) (*session, error) {
	payload, err := json.Marshal(createSessionRequest{
		Identifier: strings.TrimSpace(handle),
		Password:   strings.TrimSpace(password),
	})
	if err != nil {
		return nil, err
	}

	url := c.serviceURL + "/xrpc/com.atproto.server.createSession"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out createSessionResponse
	if err := c.do(c.base, req, &out, handle, false); err != nil {
		return nil, fmt.Errorf("bluesky login failed: %w", err)
	}
	if out.AccessJwt == "" {
		return nil, &platform.DecodeError{What: "session", Err: fmt.Errorf("empty accessJwt")}
	}

	return &session{
		c: c,
		http: &http.Client{
			Timeout: c.base.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: out.AccessJwt, TokenType: "Bearer"}),
				Base:   c.base.Transport,
			},
		},
	}, nil
}

func (s *session) authorFeed(ctx context.Context, actor string, limit int, cursor string) (*feedResponse, error) {
	var out feedResponse
	params := authorFeedParams{Actor: actor, Limit: limit, Cursor: cursor}
	if err := s.get(ctx, "/xrpc/app.bsky.feed.getAuthorFeed", params, &out, actor, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *session) searchPosts(ctx context.Context, q string, limit int, cursor string) (*searchResponse, error) {
	var out searchResponse
	params := searchPostsParams{Q: q, Limit: limit, Cursor: cursor}
	if err := s.get(ctx, "/xrpc/app.bsky.feed.searchPosts", params, &out, q, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *session) get(ctx context.Context, path string, params interface{}, out interface{}, target string, hashtag bool) error {
	values, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.c.serviceURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return s.c.do(s.http, req, out, target, hashtag)
}

func (c *client) do(hc *http.Client, req *http.Request, out interface{}, target string, hashtag bool) error {
	resp, err := hc.Do(req)
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
		return &platform.DecodeError{What: req.URL.Path, Err: err}
	}
	return nil
}
