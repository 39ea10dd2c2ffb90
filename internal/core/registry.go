package core

import (
	"fmt"
	"sync"

	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
)

// Provider 平台的构造信息
// Kind 平台枚举值，Name 为其字符串形式："pixelfed"、"mastodon"、"bluesky"。
// New 构造具体平台实例的工厂函数；DefaultConfig 返回该平台的默认配置。
type Provider struct {
	Kind models.Platform

	New func(cfg platform.Config) (platform.Platform, error)

	DefaultConfig func() platform.Config
}

func (p Provider) Name() string { return p.Kind.String() }

var (
	regMu    sync.RWMutex
	registry = map[models.Platform]Provider{}
)

func Register(p Provider) error {
	if !p.Kind.Valid() {
		return fmt.Errorf("provider 的平台不合法: %d", int(p.Kind))
	}
	if p.New == nil || p.DefaultConfig == nil {
		return fmt.Errorf("provider %s 的配置不正确", p.Name())
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := registry[p.Kind]; exists {
		return fmt.Errorf("provider %s 已经注册过了", p.Name())
	}
	registry[p.Kind] = p
	return nil
}

func MustRegister(p Provider) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

func Get(kind models.Platform) (Provider, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	p, ok := registry[kind]
	return p, ok
}

// Build 按固定顺序为每个平台构造实例；cfgs 中缺失的平台使用默认配置
func Build(cfgs map[models.Platform]platform.Config) ([models.PlatformCount]platform.Platform, error) {
	var out [models.PlatformCount]platform.Platform
	for _, kind := range models.AllPlatforms {
		prov, ok := Get(kind)
		if !ok {
			return out, fmt.Errorf("平台未注册: %s", kind)
		}
		cfg, ok := cfgs[kind]
		if !ok || cfg == nil {
			cfg = prov.DefaultConfig()
		}
		p, err := prov.New(cfg)
		if err != nil {
			return out, fmt.Errorf("创建平台 %s 失败: %w", kind, err)
		}
		out[kind] = p
	}
	return out, nil
}
