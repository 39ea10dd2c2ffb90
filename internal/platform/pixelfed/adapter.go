package pixelfed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/internal/platform/fedi"
)

// 这些实例上的账号需要经过联邦才能在 Pixelfed 上解析到
var mastodonHosts = []string{"@mastodon.", "@fosstodon."}

type Adapter struct {
	config *Config
	svc    *fedi.Service
}

func NewAdapter(config *Config) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc := fedi.NewService(fedi.Options{
		Platform:      models.Pixelfed,
		InstanceURL:   config.InstanceURL,
		AccessToken:   config.AccessToken,
		LookupTimeout: time.Duration(config.LookupTimeout) * time.Second,
		PageLimit:     config.PageLimit,
		PageDelay:     time.Duration(config.PageDelay) * time.Millisecond,
		MaxPages:      config.MaxPages,
		Client: fedi.ClientOptions{
			Timeout:   time.Duration(config.Timeout) * time.Second,
			Proxy:     config.Proxy,
			UserAgent: config.UserAgent,
		},
		NotFoundHint: notFoundHint,
	})

	return &Adapter{config: config, svc: svc}, nil
}

func (a *Adapter) Name() string { return models.Pixelfed.String() }

func (a *Adapter) Kind() models.Platform { return models.Pixelfed }

func (a *Adapter) Label() string { return fmt.Sprintf("Pixelfed (%s)", a.svc.InstanceURL()) }

func (a *Adapter) IsEnabled() bool { return a.config.Enabled }

func (a *Adapter) IsAuthenticated() bool { return a.svc.HasToken() }

func (a *Adapter) GetConfig() platform.Config { return a.config }

func (a *Adapter) SearchUser(ctx context.Context, handle string, daysBack int) ([]*models.Post, error) {
	return a.svc.SearchUser(ctx, handle, daysBack)
}

func (a *Adapter) SearchHashtag(ctx context.Context, tag string, daysBack int) ([]*models.Post, error) {
	return a.svc.SearchHashtag(ctx, tag, daysBack)
}

func notFoundHint(query, instance string) string {
	lower := strings.ToLower(query)
	for _, host := range mastodonHosts {
		if strings.Contains(lower, host) {
			return "This looks like a Mastodon account; it may not be federated to this Pixelfed instance yet. Try searching for them directly on their home instance."
		}
	}
	return "Try searching for them directly on their home instance."
}
