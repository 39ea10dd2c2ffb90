package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbsqlite "FediSleuth/db/sqlite"
	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/pkg/download"
)

func newTestApp(t *testing.T, mediaURL string) (*App, afero.Fs) {
	t.Helper()
	store, err := dbsqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	now := time.Now().UTC()
	p := &models.Post{Platform: models.Mastodon, ID: "77", Author: "Alice", Content: "golden sunset", CreatedAt: now}
	p.AddMedia(mediaURL, "image")

	platforms := [models.PlatformCount]platform.Platform{
		&fakePlatform{kind: models.Pixelfed, enabled: false},
		&fakePlatform{kind: models.Mastodon, enabled: true, posts: []*models.Post{p}},
		&fakePlatform{kind: models.Bluesky, enabled: true, err: platform.ErrAuthenticationRequired},
	}
	fs := afero.NewMemMapFs()
	dl := download.New(&download.Config{BasePath: "/out", MaxConcurrent: 2}, download.WithFs(fs))

	app := NewAppWith(store, platforms, dl)
	t.Cleanup(func() { app.Close() })
	return app, fs
}

func TestApp_SearchSaveExportDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	app, fs := newTestApp(t, srv.URL+"/pic.jpg")
	ctx := context.Background()

	out, err := app.Search(ctx, models.NewSearchQuery("#sunset", models.KindHashtag, 30), models.SelectAll(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Run.ID)
	assert.Equal(t, 1, out.Run.Total)
	assert.Equal(t, 1, out.Run.Failed)
	assert.Equal(t, "Fetched 1 posts [Pixelfed disabled | Mastodon: 1 posts | Bluesky ⚠️ "+platform.ErrAuthenticationRequired.Error()+"]", out.Summary.String())

	runs, err := app.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, out.Run.ID, runs[0].ID)

	csvPath := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, app.ExportRun(ctx, out.Run.ID, "CSV", csvPath))
	info, err := os.Stat(csvPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Error(t, app.ExportRun(ctx, out.Run.ID, "xml", csvPath))

	root, err := app.DownloadRun(ctx, out.Run.ID, nil)
	require.NoError(t, err)
	ok, _ := afero.Exists(fs, filepath.Join(root, "mastodon", "77_001.jpg"))
	assert.True(t, ok)

	posts, err := app.SearchHistory(ctx, SearchOptions{Keyword: "golden", Limit: 5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "77", posts[0].ID)

	ranked, err := app.SearchHistory(ctx, SearchOptions{Keyword: "golden", Rank: "bm25"})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	_, err = app.SearchHistory(ctx, SearchOptions{Keyword: "golden", Rank: "pagerank"})
	assert.Error(t, err)

	before, err := app.SearchHistory(ctx, SearchOptions{Keyword: "golden", Until: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, before)
	after, err := app.SearchHistory(ctx, SearchOptions{Keyword: "golden", Until: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestApp_RejectsEmptyQuery(t *testing.T) {
	app, _ := newTestApp(t, "http://unused/a.jpg")
	_, err := app.Search(context.Background(), models.NewSearchQuery(" @ ", models.KindUser, 3), models.SelectAll(), false)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestApp_DownloadRunUnknown(t *testing.T) {
	app, _ := newTestApp(t, "http://unused/a.jpg")
	_, err := app.DownloadRun(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestApp_PruneHistory(t *testing.T) {
	app, _ := newTestApp(t, "http://unused/a.jpg")
	ctx := context.Background()
	_, err := app.Search(ctx, models.NewSearchQuery("@a", models.KindUser, 3), models.SelectAll(), true)
	require.NoError(t, err)

	n, err := app.PruneHistory(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = app.PruneHistory(ctx, 0)
	assert.Error(t, err)
}
