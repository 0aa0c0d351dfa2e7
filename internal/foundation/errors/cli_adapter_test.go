package errors

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "fetch timeout", err: FetchError(ReasonFetchTimeout, "slow").Build(), expected: 8},
		{name: "generation", err: GenerationError(ReasonBackendError, "500").Build(), expected: 8},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "wrapped classified", err: fmt.Errorf("outer: %w", ConfigError("inner").Build()), expected: 7},
		{name: "unclassified", err: stdErrors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stdErrors.New("dial tcp: i/o timeout")
	err := WrapError(cause, CategoryNetwork, "clone failed").Build()

	quiet := NewCLIErrorAdapter(false, nil).FormatError(err)
	if !strings.Contains(quiet, "clone failed") || strings.Contains(quiet, "i/o timeout") {
		t.Errorf("non-verbose output should hide cause, got %q", quiet)
	}

	verbose := NewCLIErrorAdapter(true, nil).FormatError(err)
	if !strings.Contains(verbose, "i/o timeout") {
		t.Errorf("verbose output should include cause, got %q", verbose)
	}

	if got := NewCLIErrorAdapter(false, nil).FormatError(stdErrors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected plain format %q", got)
	}
}
