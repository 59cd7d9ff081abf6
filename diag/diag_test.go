package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestReportMergeOrder(t *testing.T) {
	hier := []Diagnostic{
		Errorf(PassHierarchy, CodeUnknownParent, "Orphan", "unknown parent"),
	}
	types := []Diagnostic{
		Errorf(PassTypecheck, CodeDanglingHandle, "h", "no variant"),
		Warnf(PassTypecheck, CodeUnusedHandle, "h2", "redundant"),
	}

	r := NewReport(hier, types)
	if len(r.Diagnostics) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(r.Diagnostics))
	}
	if r.Diagnostics[0].Pass != PassHierarchy {
		t.Error("hierarchy diagnostics must come first")
	}
	if r.Diagnostics[1].Code != CodeDanglingHandle || r.Diagnostics[2].Code != CodeUnusedHandle {
		t.Error("within a pass, input order must be preserved")
	}
}

func TestHasErrors(t *testing.T) {
	clean := NewReport()
	if clean.HasErrors() {
		t.Error("empty report has no errors")
	}

	warnOnly := NewReport([]Diagnostic{
		Warnf(PassTypecheck, CodeUnusedReceiver, "r", "redundant"),
	})
	if warnOnly.HasErrors() {
		t.Error("warnings alone are not errors")
	}
	if len(warnOnly.Warnings()) != 1 {
		t.Error("expected one warning")
	}

	withError := NewReport([]Diagnostic{
		Warnf(PassTypecheck, CodeUnusedReceiver, "r", "redundant"),
		Errorf(PassTypecheck, CodeMissingDefault, "f", "uncovered field"),
	})
	if !withError.HasErrors() {
		t.Error("expected errors")
	}
	if len(withError.Errors()) != 1 || withError.Errors()[0].Code != CodeMissingDefault {
		t.Error("Errors() must return only the fatal diagnostics")
	}
}

func TestAppendNilReport(t *testing.T) {
	r := NewReport([]Diagnostic{Errorf(PassLoader, CodeMalformedSchema, "", "bad")})
	r.Append(nil)
	if len(r.Diagnostics) != 1 {
		t.Error("appending nil must be a no-op")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(PassHierarchy, CodeCyclicHierarchy, "A", "cycle: A -> A")
	s := d.String()
	for _, want := range []string{"error", "hierarchy", "CyclicHierarchy", "A -> A"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	orig := NewReport([]Diagnostic{
		{Severity: SeverityError, Pass: PassHierarchy, Code: CodeUnknownParent,
			Component: "Actor", Ident: "Orphan", Message: "state Orphan references unknown parent Ghost"},
		{Severity: SeverityWarning, Pass: PassTypecheck, Code: CodeUnusedHandle,
			Component: "Actor", Ident: "extra_handle", Message: "payload already bound"},
	})

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, orig); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	got, err := ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Diagnostics) != len(orig.Diagnostics) {
		t.Fatalf("got %d diagnostics, want %d", len(got.Diagnostics), len(orig.Diagnostics))
	}
	for i := range orig.Diagnostics {
		if got.Diagnostics[i] != orig.Diagnostics[i] {
			t.Errorf("diagnostic %d changed across the round trip", i)
		}
	}
}

func TestReadJSONLSkipsBlankLines(t *testing.T) {
	in := `{"severity":"error","pass":"typecheck","code":"DanglingHandle","message":"x"}

{"severity":"warning","pass":"typecheck","code":"UnusedHandle","message":"y"}
`
	r, err := ReadJSONL(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(r.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(r.Diagnostics))
	}
}
