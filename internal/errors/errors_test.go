package errors

import (
	"strings"
	"testing"

	"github.com/ascompiler/core/internal/ast"
)

func span(line, col int) ast.Span {
	p := ast.Position{Line: line, Column: col}
	return ast.Span{Start: p, End: p}
}

func TestBusAccumulatesAndSortsBySpan(t *testing.T) {
	b := NewBus()
	b.Add(NewUndefinedName(span(5, 1), "foo"))
	b.Add(NewUndefinedName(span(1, 1), "bar"))
	b.Add(NewUndefinedName(span(3, 1), "baz"))

	if !b.HasErrors() {
		t.Fatal("expected HasErrors true")
	}
	if b.Count() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", b.Count())
	}

	diags := b.Diagnostics()
	if diags[0].Name != "bar" || diags[1].Name != "baz" || diags[2].Name != "foo" {
		t.Fatalf("expected diagnostics sorted by line, got %v %v %v", diags[0].Name, diags[1].Name, diags[2].Name)
	}
}

func TestEmptyBusHasNoErrors(t *testing.T) {
	b := NewBus()
	if b.HasErrors() {
		t.Fatal("expected empty bus to report no errors")
	}
	if b.Format("source") != "" {
		t.Fatal("expected empty format for empty bus")
	}
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	b := NewBus()
	b.Add(NewTypeMismatch(span(2, 5), "int", "string"))

	source := "line one\nline two\nline three"
	out := b.Format(source)
	if out == "" {
		t.Fatal("expected non-empty format output")
	}
	for _, want := range []string{"line two", "^", "TypeMismatch"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected formatted output to contain %q, got:\n%s", want, out)
		}
	}
}
