package platform

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrAuthenticationRequired 缺少 token 或 Bluesky 凭据，不会发起任何请求
var ErrAuthenticationRequired = errors.New("authentication required: add an access token (or Bluesky handle and app password) in settings")

// UserNotFoundError 账号解析结果为空
type UserNotFoundError struct {
	Query    string
	Instance string
	Hint     string
}

func (e *UserNotFoundError) Error() string {
	msg := fmt.Sprintf("user '%s' not found on %s", e.Query, e.Instance)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// HTTPError 非 2xx 响应
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	if body == "" {
		return fmt.Sprintf("HTTP error: %d", e.Status)
	}
	return fmt.Sprintf("HTTP error: %d. Response: %s", e.Status, body)
}

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TimeoutError 单次请求超时，Hashtag 为 true 时给出缩小查询范围的建议
type TimeoutError struct {
	Target  string
	Hashtag bool
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Hashtag {
		return fmt.Sprintf("request timed out while fetching hashtag '%s'. This hashtag may have too many posts. Try searching for a less popular hashtag or a specific user instead", e.Target)
	}
	return fmt.Sprintf("request timed out while fetching '%s'. The instance may be slow or unreachable, try again later", e.Target)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout 判断 http.Client 返回的错误是否为超时
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ClassifyRequestError 把 Do() 的错误包装成 TimeoutError 或 NetworkError
func ClassifyRequestError(err error, target string, hashtag bool) error {
	if err == nil {
		return nil
	}
	if IsTimeout(err) {
		return &TimeoutError{Target: target, Hashtag: hashtag, Err: err}
	}
	return &NetworkError{Err: err}
}
