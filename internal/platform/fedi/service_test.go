package fedi

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

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, baseURL, token string, timeout time.Duration) *Service {
	t.Helper()
	svc := NewService(Options{
		Platform:    models.Mastodon,
		InstanceURL: baseURL,
		AccessToken: token,
		PageLimit:   40,
		Client:      ClientOptions{Timeout: timeout},
		NotFoundHint: func(string, string) string {
			return "Try searching for them directly on their home instance."
		},
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSearch_NoTokenMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "  ", time.Second)
	_, err := svc.SearchUser(context.Background(), "alice", 30)
	assert.ErrorIs(t, err, platform.ErrAuthenticationRequired)
	_, err = svc.SearchHashtag(context.Background(), "cats", 30)
	assert.ErrorIs(t, err, platform.ErrAuthenticationRequired)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSearchUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/search", r.URL.Path)
		assert.Equal(t, "ghost", r.URL.Query().Get("q"))
		assert.Equal(t, "true", r.URL.Query().Get("resolve"))
		w.Write([]byte(`{"accounts":[]}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "tok", time.Second)
	_, err := svc.SearchUser(context.Background(), "@ghost", 30)

	var nf *platform.UserNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "ghost", nf.Query)
	assert.Contains(t, err.Error(), "home instance")
}

func TestSearchUser_PaginatesAndConverts(t *testing.T) {
	var maxIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v2/search":
			w.Write([]byte(`{"accounts":[{"id":"42","username":"alice"}]}`))
		case "/api/v1/accounts/42/statuses":
			assert.Equal(t, "40", r.URL.Query().Get("limit"))
			maxID := r.URL.Query().Get("max_id")
			maxIDs = append(maxIDs, maxID)
			if maxID != "" {
				w.Write([]byte(`[]`))
				return
			}
			statuses := []Status{
				{
					ID:        "9",
					CreatedAt: "2024-05-30T10:00:00.000Z",
					Content:   "<p>Hello <a href=\"#\">#cats</a></p><p>World</p>",
					Account:   Account{Username: "alice", DisplayName: "Alice"},
					MediaAttachments: []MediaAttachment{
						{Type: "image", URL: "https://cdn.example/a.png"},
						{Type: "image", URL: "  "},
					},
					FavouritesCount: 3,
					ReblogsCount:    1,
				},
				{
					ID:        "8",
					CreatedAt: "2024-05-29T10:00:00Z",
					URL:       "https://example/@alice/8",
					Account:   Account{Username: "alice"},
				},
			}
			json.NewEncoder(w).Encode(statuses)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "tok", time.Second)
	posts, err := svc.SearchUser(context.Background(), "alice", 30)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, []string{"", "8"}, maxIDs)

	first := posts[0]
	assert.Equal(t, models.Mastodon, first.Platform)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "Hello #cats\nWorld", first.Content)
	assert.Equal(t, []string{"https://cdn.example/a.png"}, first.MediaURLs)
	assert.Equal(t, []string{"image"}, first.MediaTypes)
	assert.Equal(t, 3, first.Likes)
	assert.Equal(t, srv.URL+"/@alice/9", first.URL)

	assert.Equal(t, "alice", posts[1].Author)
	assert.Equal(t, "https://example/@alice/8", posts[1].URL)
}

func TestSearchHashtag_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "tok", 50*time.Millisecond)
	_, err := svc.SearchHashtag(context.Background(), "#popular", 30)

	var te *platform.TimeoutError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Hashtag)
	assert.Equal(t, "popular", te.Target)
	assert.Contains(t, err.Error(), "less popular hashtag")
}

func TestSearchHashtag_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/timelines/tag/cats", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"The access token is invalid"}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "tok", time.Second)
	_, err := svc.SearchHashtag(context.Background(), "cats", 30)

	var he *platform.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Contains(t, he.Body, "invalid")
}

func TestConvert_SkipsBadTimestamps(t *testing.T) {
	svc := newTestService(t, "https://x.social", "tok", time.Second)
	_, _, ok := svc.convert(Status{ID: "1", CreatedAt: "yesterday"})
	assert.False(t, ok)
	_, _, ok = svc.convert(Status{CreatedAt: "2024-05-30T10:00:00Z"})
	assert.False(t, ok)

	post, _, ok := svc.convert(Status{ID: "2", CreatedAt: "2024-05-30T10:00:00Z"})
	require.True(t, ok)
	assert.Equal(t, "Unknown", post.Author)
	assert.Equal(t, "https://x.social/@unknown/2", post.URL)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "a\nb &", StripHTML("a<br>b &amp;"))
	assert.Equal(t, "", StripHTML("   "))
}
