package export_test

import (
	stdcsv "encoding/csv"
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FediSleuth/internal/core/export"
	"FediSleuth/internal/core/export/csv"
	"FediSleuth/internal/core/export/json"
	"FediSleuth/internal/models"
)

func samplePosts() []*models.Post {
	p := &models.Post{
		Platform:  models.Bluesky,
		ID:        "at://did:plc:1/app.bsky.feed.post/a",
		Author:    "Alice",
		Content:   strings.Repeat("长", 600),
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Likes:     3,
		URL:       "https://bsky.app/profile/alice/post/a?x=1&y=2",
	}
	p.AddMedia("https://cdn/1.jpg", "image")
	p.AddMedia("https://cdn/2.jpg", "image")
	return []*models.Post{p}
}

func TestCSVExporter(t *testing.T) {
	var e export.Exporter = csv.NewCSVExporter()
	out := filepath.Join(t.TempDir(), "posts.csv")
	require.NoError(t, e.Export(samplePosts(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))

	records, err := stdcsv.NewReader(strings.NewReader(string(data[3:]))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	row := records[1]
	assert.Equal(t, "bluesky", row[0])
	assert.Equal(t, 503, len([]rune(row[3])))
	assert.Equal(t, "2024-05-01T10:00:00Z", row[4])
	assert.Equal(t, "2", row[5])
	assert.Equal(t, "https://cdn/1.jpg; https://cdn/2.jpg", row[6])
}

func TestJSONExporter(t *testing.T) {
	var e export.Exporter = json.NewJSONExporter()
	out := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, e.Export(samplePosts(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "?x=1&y=2")

	var decoded struct {
		Total int `json:"total"`
		Posts []struct {
			Platform  string   `json:"platform"`
			MediaURLs []string `json:"media_urls"`
		} `json:"posts"`
	}
	require.NoError(t, stdjson.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Total)
	assert.Equal(t, "bluesky", decoded.Posts[0].Platform)
	assert.Len(t, decoded.Posts[0].MediaURLs, 2)
}
