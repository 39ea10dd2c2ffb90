package models

import (
	"fmt"
	"strings"
)

// Platform 支持的社交平台，封闭枚举，可作为 map key
type Platform int

const (
	Pixelfed Platform = iota
	Mastodon
	Bluesky
)

// PlatformCount 平台数量，编排器用定长数组保存各平台
const PlatformCount = 3

// AllPlatforms 固定的平台顺序，结果分组也按该顺序输出
var AllPlatforms = [PlatformCount]Platform{Pixelfed, Mastodon, Bluesky}

var platformNames = [PlatformCount]string{"pixelfed", "mastodon", "bluesky"}

var platformTitles = [PlatformCount]string{"Pixelfed", "Mastodon", "Bluesky"}

func (p Platform) String() string {
	if p < 0 || int(p) >= PlatformCount {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return platformNames[p]
}

// Title 用于展示的平台名
func (p Platform) Title() string {
	if p < 0 || int(p) >= PlatformCount {
		return p.String()
	}
	return platformTitles[p]
}

// FolderName 下载时每个平台的子目录名
func (p Platform) FolderName() string { return p.String() }

func (p Platform) Valid() bool { return p >= 0 && int(p) < PlatformCount }

// ParsePlatform 解析平台名（大小写不敏感）
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range platformNames {
		if name == s {
			return Platform(i), nil
		}
	}
	return 0, fmt.Errorf("unknown platform: %q", s)
}

func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid platform: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Platform) UnmarshalText(text []byte) error {
	v, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Selection 调用方选择的平台集合
type Selection [PlatformCount]bool

// SelectAll 选中全部平台
func SelectAll() Selection {
	var s Selection
	for i := range s {
		s[i] = true
	}
	return s
}

// ParseSelection 解析逗号分隔的平台列表，空字符串表示全部
func ParseSelection(list string) (Selection, error) {
	var s Selection
	if strings.TrimSpace(list) == "" {
		return SelectAll(), nil
	}
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePlatform(part)
		if err != nil {
			return s, err
		}
		s[p] = true
	}
	return s, nil
}

func (s Selection) Has(p Platform) bool { return p.Valid() && s[p] }

func (s Selection) Any() bool {
	for _, v := range s {
		if v {
			return true
		}
	}
	return false
}
