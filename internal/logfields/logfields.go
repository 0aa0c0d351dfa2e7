package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyName       = "name"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyStyle      = "style"
	KeySource     = "source"
	KeyReason     = "reason"
	KeyProvider   = "provider"
	KeyModel      = "model"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr           { return slog.String(KeyName, n) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Style(s string) slog.Attr          { return slog.String(KeyStyle, s) }
func Source(s string) slog.Attr         { return slog.String(KeySource, s) }
func Reason(r string) slog.Attr         { return slog.String(KeyReason, r) }
func Provider(p string) slog.Attr       { return slog.String(KeyProvider, p) }
func Model(m string) slog.Attr          { return slog.String(KeyModel, m) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Bytes(n int64) slog.Attr           { return slog.Int64(KeyBytes, n) }
func Elapsed(d time.Duration) slog.Attr { return DurationMS(float64(d.Microseconds()) / 1000) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
