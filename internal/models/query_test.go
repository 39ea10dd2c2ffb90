package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampDaysBack(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, MinDaysBack},
		{0, MinDaysBack},
		{1, 1},
		{180, 180},
		{3650, 3650},
		{99999, MaxDaysBack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampDaysBack(tt.in), "days=%d", tt.in)
	}
	assert.Equal(t, MaxDaysBack, NewSearchQuery("x", KindUser, 5000).DaysBack)
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, time.Date(2024, 3, 3, 7, 0, 0, 0, time.UTC), Cutoff(now, 7))
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "alice", CleanQuery("  @alice "))
	assert.Equal(t, "cats", CleanQuery("#cats"))
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "alice@mastodon.social", NewSearchQuery("@alice@mastodon.social", KindUser, 1).FolderName())
	assert.Equal(t, "a_b", NewSearchQuery("#a/b", KindHashtag, 1).FolderName())
	// 只去掉与类型对应的前缀
	assert.Equal(t, "#tag", NewSearchQuery("#tag", KindUser, 1).FolderName())
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("")
	require.NoError(t, err)
	assert.Equal(t, SelectAll(), sel)

	sel, err = ParseSelection("Bluesky, mastodon")
	require.NoError(t, err)
	assert.False(t, sel.Has(Pixelfed))
	assert.True(t, sel.Has(Mastodon))
	assert.True(t, sel.Has(Bluesky))

	_, err = ParseSelection("myspace")
	assert.Error(t, err)
}

func TestPlatformJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Platform{"p": Bluesky})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"bluesky"}`, string(data))

	var p Platform
	require.NoError(t, json.Unmarshal([]byte(`"mastodon"`), &p))
	assert.Equal(t, Mastodon, p)
}

func TestResultGroup(t *testing.T) {
	now := time.Now()
	g := NewResultGroup(Mastodon, "Mastodon", []*Post{
		{ID: "a", CreatedAt: now.Add(-time.Hour)},
		nil,
		{ID: "b", CreatedAt: now},
	})
	require.Equal(t, 2, g.Count())
	assert.Equal(t, "b", g.Results[0].ID)
	assert.False(t, g.Failed())

	e := NewErrorGroup(Bluesky, "Bluesky", "boom")
	assert.True(t, e.Failed())
	assert.Empty(t, e.Results)
}

func TestPost_AddMediaKeepsParallelSlices(t *testing.T) {
	p := &Post{}
	p.AddMedia(" https://x/a.jpg ", "image")
	p.AddMedia("", "image")
	p.AddMedia("https://x/b.mp4", "video")
	assert.Equal(t, []string{"https://x/a.jpg", "https://x/b.mp4"}, p.MediaURLs)
	assert.Len(t, p.MediaTypes, len(p.MediaURLs))
}
