package pixelfed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FediSleuth/internal/core"
	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
)

func TestNewAdapter_Defaults(t *testing.T) {
	a, err := NewAdapter(nil)
	require.NoError(t, err)
	assert.Equal(t, models.Pixelfed, a.Kind())
	assert.Equal(t, "Pixelfed (https://pixelfed.social)", a.Label())
	assert.True(t, a.IsEnabled())
	assert.False(t, a.IsAuthenticated())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageLimit = 80
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.InstanceURL = ""
	assert.Error(t, cfg.Validate())
	cfg.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestNotFoundHint(t *testing.T) {
	assert.Contains(t, notFoundHint("bob@mastodon.social", ""), "Mastodon account")
	assert.Contains(t, notFoundHint("bob@Fosstodon.org", ""), "Mastodon account")
	assert.Equal(t, "Try searching for them directly on their home instance.", notFoundHint("bob", ""))
}

func TestSearchUser_FederationHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.InstanceURL = srv.URL
	cfg.AccessToken = "tok"
	a, err := NewAdapter(cfg)
	require.NoError(t, err)

	_, err = a.SearchUser(context.Background(), "@carol@mastodon.social", 30)
	var nf *platform.UserNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.Hint, "federated")
}

func TestSearchUser_LookupHTTPErrorKeepsHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"remote lookup failed"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.InstanceURL = srv.URL
	cfg.AccessToken = "tok"
	a, err := NewAdapter(cfg)
	require.NoError(t, err)

	_, err = a.SearchUser(context.Background(), "dave@fosstodon.org", 30)
	var he *platform.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Contains(t, err.Error(), "may not be federated")
}

func TestProviderRegistered(t *testing.T) {
	prov, ok := core.Get(models.Pixelfed)
	require.True(t, ok)

	p, err := prov.New(nil)
	require.NoError(t, err)
	assert.Equal(t, "pixelfed", p.Name())
	assert.IsType(t, &Config{}, prov.DefaultConfig())
}
