package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const DefaultUserAgent = "FediSleuth/0.1.0"

var (
	transportMu sync.Mutex
	transports  = map[string]*http.Transport{}
)

// SharedTransport 按代理地址复用连接池，整个进程只为每个代理建一次 Transport
func SharedTransport(proxy string) *http.Transport {
	transportMu.Lock()
	defer transportMu.Unlock()

	if t, ok := transports[proxy]; ok {
		return t
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}
	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			t.Proxy = http.ProxyURL(proxyURL)
		}
	}
	transports[proxy] = t
	return t
}

// NewHTTPClient 创建一个使用共享连接池的 HTTP 客户端
// - timeout: 单次请求超时，<=0 时使用 30s
// - proxy: 代理地址，例如 "http://127.0.0.1:7890"，留空则走环境变量
func NewHTTPClient(timeout time.Duration, proxy string) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: SharedTransport(proxy),
	}
}

// NewStreamingClient 用于下载大文件：只限制建立连接和等待响应头的时间，
// 响应体的读取不设总超时，只受 ctx 控制
func NewStreamingClient(headerTimeout time.Duration, proxy string) *http.Client {
	if headerTimeout <= 0 {
		headerTimeout = 30 * time.Second
	}
	t := SharedTransport(proxy).Clone()
	t.ResponseHeaderTimeout = headerTimeout
	t.TLSHandshakeTimeout = headerTimeout
	return &http.Client{Transport: t}
}

// userAgentTransport 给每个请求加上 User-Agent
type userAgentTransport struct {
	base http.RoundTripper
	ua   string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.ua)
	}
	return t.base.RoundTrip(req)
}

// WithUserAgent 包装 RoundTripper，ua 为空时使用默认值
func WithUserAgent(base http.RoundTripper, ua string) http.RoundTripper {
	if ua == "" {
		ua = DefaultUserAgent
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &userAgentTransport{base: base, ua: ua}
}
