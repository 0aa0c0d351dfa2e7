// Package generation adapts external generative text APIs to a single
// Backend interface.
//
// Every failure is a ClassifiedError in the generation category carrying one
// of four reasons: missing_credential (no network attempt is made),
// empty_generation, backend_error (non-2xx, with status and body context) or
// network_error. Backends never retry.
package generation
