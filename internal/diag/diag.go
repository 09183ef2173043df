// Package diag collects non-fatal diagnostics raised by structural misuse
// of the engine (declaring a mirror to a missing slot, removing a slot that
// does not exist, and so on). Misused operations degrade to no-ops; the
// diagnostic record is how the caller finds out.
package diag

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/ctxlog"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Warning marks a condition the engine recovered from silently.
	Warning Severity = iota
	// Error marks an operation that was rejected and turned into a no-op.
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a single reported condition.
type Diagnostic struct {
	Severity Severity
	Summary  string
	Detail   string
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Summary)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Summary, d.Detail)
}

// Reporter accumulates diagnostics and echoes them to the context logger.
// A zero Reporter is ready to use.
type Reporter struct {
	diags []Diagnostic
}

// Errorf records an Error-severity diagnostic.
func (r *Reporter) Errorf(ctx context.Context, summary, format string, args ...any) {
	r.report(ctx, Diagnostic{Severity: Error, Summary: summary, Detail: fmt.Sprintf(format, args...)})
}

// Warnf records a Warning-severity diagnostic.
func (r *Reporter) Warnf(ctx context.Context, summary, format string, args ...any) {
	r.report(ctx, Diagnostic{Severity: Warning, Summary: summary, Detail: fmt.Sprintf(format, args...)})
}

func (r *Reporter) report(ctx context.Context, d Diagnostic) {
	logger := ctxlog.FromContext(ctx)
	switch d.Severity {
	case Error:
		logger.Error(d.Summary, "detail", d.Detail)
	default:
		logger.Warn(d.Summary, "detail", d.Detail)
	}
	r.diags = append(r.diags, d)
}

// Diagnostics returns everything reported so far, oldest first.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Reset discards all recorded diagnostics.
func (r *Reporter) Reset() {
	r.diags = nil
}
