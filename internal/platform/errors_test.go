package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutNetErr struct{}

func (timeoutNetErr) Error() string   { return "i/o timeout" }
func (timeoutNetErr) Timeout() bool   { return true }
func (timeoutNetErr) Temporary() bool { return true }

func TestClassifyRequestError(t *testing.T) {
	err := ClassifyRequestError(fmt.Errorf("get: %w", context.DeadlineExceeded), "cats", true)
	var te *TimeoutError
	assert.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "less popular hashtag")

	err = ClassifyRequestError(timeoutNetErr{}, "alice", false)
	assert.True(t, errors.As(err, &te))
	assert.False(t, te.Hashtag)

	err = ClassifyRequestError(errors.New("connection refused"), "alice", false)
	var ne *NetworkError
	assert.True(t, errors.As(err, &ne))

	assert.NoError(t, ClassifyRequestError(nil, "", false))
}

func TestHTTPError_TruncatesBody(t *testing.T) {
	err := &HTTPError{Status: 500, Body: strings.Repeat("x", 1000)}
	assert.Less(t, len(err.Error()), 400)
	assert.Equal(t, "HTTP error: 404", (&HTTPError{Status: 404}).Error())
}

func TestUserNotFoundError(t *testing.T) {
	err := &UserNotFoundError{Query: "bob", Instance: "https://x.social", Hint: "Try elsewhere."}
	assert.Equal(t, "user 'bob' not found on https://x.social. Try elsewhere.", err.Error())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pixelfed.social", "https://pixelfed.social"},
		{"https://mastodon.social/", "https://mastodon.social"},
		{"  http://localhost:8080// ", "http://localhost:8080"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), tt.in)
	}
}
