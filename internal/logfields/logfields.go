package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyComponent  = "component"
	KeyVersion    = "version"
	KeyModule     = "module"
	KeyFamily     = "family"
	KeyPath       = "path"
	KeySpec       = "spec"
	KeyURL        = "url"
	KeySource     = "source"
	KeyRef        = "ref"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Component(c string) slog.Attr    { return slog.String(KeyComponent, c) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Module(m string) slog.Attr       { return slog.String(KeyModule, m) }
func Family(f string) slog.Attr       { return slog.String(KeyFamily, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Spec(s string) slog.Attr         { return slog.String(KeySpec, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Ref(r string) slog.Attr          { return slog.String(KeyRef, r) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
