package bluesky

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
)

func newTestAdapter(t *testing.T, serviceURL string) *Adapter {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ServiceURL = serviceURL
	cfg.Handle = "me.bsky.social"
	cfg.AppPassword = "app-pass"
	cfg.PageDelay = 0
	a, err := NewAdapter(cfg)
	require.NoError(t, err)
	return a
}

func TestSearch_MissingCredentials(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.ServiceURL = srv.URL
	a, err := NewAdapter(cfg)
	require.NoError(t, err)
	assert.False(t, a.IsAuthenticated())

	_, err = a.SearchUser(context.Background(), "alice", 10)
	assert.ErrorIs(t, err, platform.ErrAuthenticationRequired)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSearchHashtag_SessionAndPagination(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	var cursors []string

	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body createSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "me.bsky.social", body.Identifier)
		assert.Equal(t, "app-pass", body.Password)
		w.Write([]byte(`{"accessJwt":"jwt-1","handle":"me.bsky.social"}`))
	})
	mux.HandleFunc("/xrpc/app.bsky.feed.searchPosts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		assert.Equal(t, "#cats", r.URL.Query().Get("q"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)

		if cursor == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cursor": "c1",
				"posts": []map[string]interface{}{
					{
						"uri":       "at://did:plc:1/app.bsky.feed.post/aaa",
						"author":    map[string]string{"handle": "alice.bsky.social", "displayName": "Alice"},
						"record":    map[string]string{"text": " hi ", "createdAt": recent},
						"likeCount": 4,
						"embed": map[string]interface{}{
							"$type":  "app.bsky.embed.images#view",
							"images": []map[string]string{{"fullsize": "https://cdn/1.jpg"}},
						},
					},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"cursor": "c2",
			"posts": []map[string]interface{}{
				{
					"uri":       "at://did:plc:2/app.bsky.feed.post/bbb",
					"author":    map[string]string{"handle": "bob.bsky.social"},
					"record":    map[string]string{"text": "idx"},
					"indexedAt": recent,
				},
				{
					"uri":    "at://did:plc:3/app.bsky.feed.post/ccc",
					"author": map[string]string{"handle": "old.bsky.social"},
					"record": map[string]string{"createdAt": "2001-01-01T00:00:00Z"},
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	posts, err := a.SearchHashtag(context.Background(), "cats", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "c1"}, cursors)
	require.Len(t, posts, 2)

	assert.Equal(t, models.Bluesky, posts[0].Platform)
	assert.Equal(t, "Alice", posts[0].Author)
	assert.Equal(t, "hi", posts[0].Content)
	assert.Equal(t, 4, posts[0].Likes)
	assert.Equal(t, []string{"https://cdn/1.jpg"}, posts[0].MediaURLs)
	assert.Equal(t, "https://bsky.app/profile/alice.bsky.social/post/aaa", posts[0].URL)

	// 没有 createdAt 时使用 indexedAt，没有 displayName 时使用 handle
	assert.Equal(t, "bob.bsky.social", posts[1].Author)
}

func TestSearchUser_LoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"AuthenticationRequired","message":"Invalid identifier or password"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.SearchUser(context.Background(), "@alice.bsky.social", 30)

	var he *platform.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Contains(t, err.Error(), "bluesky login failed")
}

func TestSearchUser_AuthorFeed(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessJwt":"jwt"}`))
	})
	mux.HandleFunc("/xrpc/app.bsky.feed.getAuthorFeed", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alice.bsky.social", r.URL.Query().Get("actor"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"feed": []map[string]interface{}{
				{"post": map[string]interface{}{
					"uri":    "at://did:plc:1/app.bsky.feed.post/xyz",
					"author": map[string]string{"handle": "alice.bsky.social"},
					"record": map[string]string{"text": "mine", "createdAt": recent},
				}},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	posts, err := a.SearchUser(context.Background(), "@alice.bsky.social", 30)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "at://did:plc:1/app.bsky.feed.post/xyz", posts[0].ID)
}

func TestSearchHashtag_MalformedEmbedKeepsPage(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessJwt":"jwt"}`))
	})
	mux.HandleFunc("/xrpc/app.bsky.feed.searchPosts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts":[
			{"uri":"at://did:plc:1/app.bsky.feed.post/good","author":{"handle":"a.bsky.social"},
			 "record":{"text":"ok","createdAt":"` + recent + `"},
			 "embed":{"$type":"app.bsky.embed.images#view","images":[{"fullsize":"https://cdn/good.jpg"}]}},
			{"uri":"at://did:plc:2/app.bsky.feed.post/odd","author":{"handle":"b.bsky.social"},
			 "record":{"text":"odd","createdAt":"` + recent + `"},
			 "embed":{"$type":"app.bsky.embed.video#view","playlist":{"hls":"https://video/x.m3u8"}}}
		]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	posts, err := a.SearchHashtag(context.Background(), "cats", 30)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, []string{"https://cdn/good.jpg"}, posts[0].MediaURLs)
	assert.Equal(t, 0, posts[1].MediaCount())
}
