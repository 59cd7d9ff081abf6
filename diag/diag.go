// Package diag collects and orders compiler diagnostics. Passes accumulate
// their own diagnostic slices and the pipeline merges them once, so no pass
// ever shares a mutable list with another. A report is always produced, even
// for a clean run, because warnings ride on it.
package diag

import "fmt"

// Severity classifies a diagnostic. Errors block emission; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Pass identifies which compiler pass produced a diagnostic. Report ordering
// is by pass first, declaration order second.
type Pass string

const (
	PassLoader    Pass = "loader"
	PassHierarchy Pass = "hierarchy"
	PassTypecheck Pass = "typecheck"
)

// Code names the defect class.
type Code string

const (
	CodeMalformedSchema     Code = "MalformedSchema"
	CodeUnknownParent       Code = "UnknownParent"
	CodeCyclicHierarchy     Code = "CyclicHierarchy"
	CodeDanglingHandle      Code = "DanglingHandle"
	CodeDanglingReceiver    Code = "DanglingReceiver"
	CodeDuplicateIdentifier Code = "DuplicateIdentifier"
	CodeMissingDefault      Code = "MissingDefault"
	CodeUnusedHandle        Code = "UnusedHandle"
	CodeUnusedReceiver      Code = "UnusedReceiver"
)

// Diagnostic is one reported issue.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Pass      Pass     `json:"pass"`
	Code      Code     `json:"code"`
	Component string   `json:"component,omitempty"`
	Ident     string   `json:"ident,omitempty"` // offending identifier
	Message   string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s/%s] %s: %s", d.Severity, d.Pass, d.Code, d.Ident, d.Message)
}

// Errorf builds an error diagnostic.
func Errorf(pass Pass, code Code, ident, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Pass:     pass,
		Code:     code,
		Ident:    ident,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning diagnostic.
func Warnf(pass Pass, code Code, ident, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Pass:     pass,
		Code:     code,
		Ident:    ident,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Report is the ordered aggregate of a run's diagnostics.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewReport merges per-pass slices in the order given. Callers pass slices
// in fixed pass order (loader, hierarchy, typecheck) so the report order is
// deterministic regardless of which pass finished first.
func NewReport(passes ...[]Diagnostic) *Report {
	r := &Report{}
	for _, ds := range passes {
		r.Diagnostics = append(r.Diagnostics, ds...)
	}
	return r
}

// Append adds another report's diagnostics in order.
func (r *Report) Append(other *Report) {
	if other == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// HasErrors reports whether any diagnostic is fatal to emission.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the fatal diagnostics in report order.
func (r *Report) Errors() []Diagnostic {
	return r.bySeverity(SeverityError)
}

// Warnings returns the non-fatal diagnostics in report order.
func (r *Report) Warnings() []Diagnostic {
	return r.bySeverity(SeverityWarning)
}

func (r *Report) bySeverity(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
