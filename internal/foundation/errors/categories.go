package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// CategoryNetwork represents external system integration errors.
	CategoryNetwork    ErrorCategory = "network"
	CategoryGit        ErrorCategory = "git"
	CategoryGeneration ErrorCategory = "generation"

	// CategoryFileSystem represents local processing errors.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Reason names a concrete, enumerable failure mode. A Reason is itself an error so callers
// can write errors.Is(err, ReasonFetchTimeout) against any classified error chain.
type Reason string

func (r Reason) Error() string { return string(r) }

const (
	ReasonNone Reason = ""

	// Fetch failures.
	ReasonInvalidReference Reason = "invalid_reference"
	ReasonFetchTimeout     Reason = "fetch_timeout"
	ReasonFetchFailed      Reason = "fetch_failed"

	// Generation failures.
	ReasonMissingCredential Reason = "missing_credential"
	ReasonEmptyGeneration   Reason = "empty_generation"
	ReasonBackendError      Reason = "backend_error"
	ReasonNetworkError      Reason = "network_error"

	// ReasonStagePanic marks a recovered panic inside a pipeline stage.
	ReasonStagePanic Reason = "stage_panic"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// GetInt retrieves an int context value.
func (c ErrorContext) GetInt(key string) (int, bool) {
	if value, exists := c.Get(key); exists {
		if n, ok := value.(int); ok {
			return n, true
		}
	}
	return 0, false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
