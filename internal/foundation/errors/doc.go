// Package errors provides the classified error primitives shared by every GitScriptor stage.
//
// A ClassifiedError carries a broad category (config, network, generation, ...), a severity,
// and an optional Reason code that names the exact failure mode. Stages never surface plain
// strings to the pipeline: they build a ClassifiedError so the orchestrator can match on the
// reason instead of parsing messages.
//
// Key features:
//   - ErrorCategory: broad error classification used for exit codes and metrics
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - Reason: enumerable failure mode, usable directly with errors.Is
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLI adapter for exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryNetwork, "clone timed out").
//		WithReason(errors.ReasonFetchTimeout).
//		WithContext("url", repoURL).
//		WithCause(ctx.Err()).
//		Build()
//
//	if stdErrors.Is(err, errors.ReasonFetchTimeout) { ... }
package errors
