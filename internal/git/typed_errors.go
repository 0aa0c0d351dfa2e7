package git

import (
	"fmt"
	"strings"
)

// Typed clone failures. classifyCloneError attaches their kind to the
// ClassifiedError context so callers never parse go-git messages.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("clone auth error for %s: %v", e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("clone not found %s: %v", e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type UnsupportedProtocolError struct {
	URL string
	Err error
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("clone unsupported protocol %s: %v", e.URL, e.Err)
}
func (e *UnsupportedProtocolError) Unwrap() error { return e.Err }

type RateLimitError struct {
	URL string
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("clone rate limited %s: %v", e.URL, e.Err)
}
func (e *RateLimitError) Unwrap() error { return e.Err }

// Failure kinds recorded under the "kind" context key.
const (
	KindAuth                = "auth"
	KindNotFound            = "not_found"
	KindUnsupportedProtocol = "unsupported_protocol"
	KindRateLimit           = "rate_limit"
	KindOther               = "other"
)

// typeCloneError maps a go-git error message onto a typed error and its kind.
func typeCloneError(url string, err error) (error, string) {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") ||
		strings.Contains(l, "invalid username or password") || strings.Contains(l, "could not read username"):
		return &AuthError{URL: url, Err: err}, KindAuth
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist") || strings.Contains(l, "no such file"):
		return &NotFoundError{URL: url, Err: err}, KindNotFound
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported") || strings.Contains(l, "unsupported scheme"):
		return &UnsupportedProtocolError{URL: url, Err: err}, KindUnsupportedProtocol
	case strings.Contains(l, "rate limit") || strings.Contains(l, "too many requests"):
		return &RateLimitError{URL: url, Err: err}, KindRateLimit
	default:
		return err, KindOther
	}
}
