package mastodon

import (
	"context"
	"fmt"
	"time"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/internal/platform/fedi"
)

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
		Platform:      models.Mastodon,
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
		NotFoundHint: func(string, string) string {
			return "Try searching for them directly on their home instance."
		},
	})

	return &Adapter{config: config, svc: svc}, nil
}

func (a *Adapter) Name() string { return models.Mastodon.String() }

func (a *Adapter) Kind() models.Platform { return models.Mastodon }

func (a *Adapter) Label() string { return fmt.Sprintf("Mastodon (%s)", a.svc.InstanceURL()) }

func (a *Adapter) IsEnabled() bool { return a.config.Enabled }

func (a *Adapter) IsAuthenticated() bool { return a.svc.HasToken() }

func (a *Adapter) GetConfig() platform.Config { return a.config }

func (a *Adapter) SearchUser(ctx context.Context, handle string, daysBack int) ([]*models.Post, error) {
	return a.svc.SearchUser(ctx, handle, daysBack)
}

func (a *Adapter) SearchHashtag(ctx context.Context, tag string, daysBack int) ([]*models.Post, error) {
	return a.svc.SearchHashtag(ctx, tag, daysBack)
}
