// Package retry decides whether and when a failed generation call is retried.
package retry

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // maximum retry attempts after the first failure
}

// DefaultPolicy returns the policy used when nothing is configured: no retries.
func DefaultPolicy() Policy {
	return Policy{
		Mode:    config.RetryBackoffLinear,
		Initial: config.DefaultRetryInitialDelay,
		Max:     config.DefaultRetryMaxDelay,
	}
}

// NewPolicy builds a policy from configuration; zero or invalid values fall back to defaults.
func NewPolicy(cfg config.RetryConfig) Policy {
	p := DefaultPolicy()
	if cfg.MaxRetries > 0 {
		p.MaxRetries = cfg.MaxRetries
	}
	if cfg.InitialDelay > 0 {
		p.Initial = cfg.InitialDelay
	}
	if cfg.MaxDelay > 0 {
		p.Max = cfg.MaxDelay
	}
	switch cfg.Backoff {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = cfg.Backoff
	default:
		// unknown -> keep default
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		if retryCount > 30 {
			return p.Max
		}
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Transient reports whether a generation failure may succeed on another
// attempt: transport failures, rate limiting and server-side errors.
// Missing credentials, empty output and client errors are permanent.
func Transient(err error) bool {
	switch errors.ReasonOf(err) {
	case errors.ReasonNetworkError:
		return true
	case errors.ReasonBackendError:
		ce, ok := errors.AsClassified(err)
		if !ok {
			return false
		}
		status, ok := ce.Context().GetInt("status")
		return ok && (status == http.StatusTooManyRequests || status >= http.StatusInternalServerError)
	default:
		return false
	}
}
