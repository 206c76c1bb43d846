// Package errors implements the compiler core's error bus: a typed
// diagnostic taxonomy plus an accumulating, non-fatal sink keyed by span and
// kind. Rendering uses a source-line-plus-caret formatting approach adapted
// to the typed Diagnostic model instead of a flat error-message string.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ascompiler/core/internal/ast"
)

// Diagnostic is one compile-time error, keyed by its span and Kind.
// Expected/Got/Name carry structured context for kinds that want it
// (TypeMismatch, UndefinedName, ...); Message is always the rendered,
// human-readable text.
type Diagnostic struct {
	Kind     Kind
	Span     ast.Span
	Message  string
	Expected string // rendered expected-type text, if applicable
	Got      string // rendered got-type text, if applicable
	Name     string // the offending identifier, if applicable
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s at %d:%d", d.Kind, d.Message, d.Span.Start.Line, d.Span.Start.Column)
}

// Bus accumulates diagnostics across a compile. It never aborts a pass:
// resolution and function compilation record errors and continue so that
// downstream errors stay localized to the entities that caused them.
type Bus struct {
	diagnostics []*Diagnostic
}

// NewBus creates an empty error bus.
func NewBus() *Bus { return &Bus{} }

// Add appends a diagnostic to the bus.
func (b *Bus) Add(d *Diagnostic) { b.diagnostics = append(b.diagnostics, d) }

// Addf is a convenience for building and adding a Diagnostic in one call.
func (b *Bus) Addf(kind Kind, span ast.Span, format string, args ...interface{}) {
	b.Add(&Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether the bus is non-empty. A compile is successful
// iff the error bus is empty at end.
func (b *Bus) HasErrors() bool { return len(b.diagnostics) > 0 }

// Count returns the number of accumulated diagnostics.
func (b *Bus) Count() int { return len(b.diagnostics) }

// Diagnostics returns all accumulated diagnostics, ordered by span then by
// the order they were recorded (stable), matching "the driver reports
// errors grouped by span".
func (b *Bus) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Span.Start, out[j].Span.Start
		if si.Line != sj.Line {
			return si.Line < sj.Line
		}
		return si.Column < sj.Column
	})
	return out
}

// Format renders every accumulated diagnostic with source-line context,
// grouped by span.
func (b *Bus) Format(source string) string {
	diags := b.Diagnostics()
	if len(diags) == 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	var sb strings.Builder
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d/%d] %s at %d:%d\n", i+1, len(diags), d.Kind, d.Span.Start.Line, d.Span.Start.Column))
		if d.Span.Start.Line >= 1 && d.Span.Start.Line <= len(lines) {
			srcLine := lines[d.Span.Start.Line-1]
			prefix := fmt.Sprintf("%4d | ", d.Span.Start.Line)
			sb.WriteString(prefix)
			sb.WriteString(srcLine)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+d.Span.Start.Column-1))
			sb.WriteString("^\n")
		}
		sb.WriteString(d.Message)
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// -- Constructors for the diagnostic taxonomy. --

func NewUndefinedName(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: UndefinedName, Span: span, Message: fmt.Sprintf("undefined name %q", name), Name: name}
}

func NewUndefinedField(span ast.Span, className, field string) *Diagnostic {
	return &Diagnostic{Kind: UndefinedField, Span: span, Message: fmt.Sprintf("class %q has no field %q", className, field), Name: field}
}

func NewUndefinedMethod(span ast.Span, className, method string) *Diagnostic {
	return &Diagnostic{Kind: UndefinedMethod, Span: span, Message: fmt.Sprintf("class %q has no method %q", className, method), Name: method}
}

func NewNoMatchingOverload(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: NoMatchingOverload, Span: span, Message: fmt.Sprintf("no overload of %q matches the given arguments", name), Name: name}
}

func NewAmbiguous(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: Ambiguous, Span: span, Message: fmt.Sprintf("ambiguous reference to %q", name), Name: name}
}

func NewDuplicateType(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: DuplicateType, Span: span, Message: fmt.Sprintf("%q is already declared as a type", name), Name: name}
}

func NewDuplicateFunction(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: DuplicateFunction, Span: span, Message: fmt.Sprintf("%q is already declared with this signature", name), Name: name}
}

func NewDuplicateGlobal(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: DuplicateGlobal, Span: span, Message: fmt.Sprintf("%q is already declared as a global", name), Name: name}
}

func NewInvalidNamespace(span ast.Span, path string) *Diagnostic {
	return &Diagnostic{Kind: InvalidNamespace, Span: span, Message: fmt.Sprintf("invalid namespace path %q", path), Name: path}
}

func NewTypeMismatch(span ast.Span, expected, got string) *Diagnostic {
	return &Diagnostic{Kind: TypeMismatch, Span: span, Message: fmt.Sprintf("cannot convert %s to %s", got, expected), Expected: expected, Got: got}
}

func NewVoidExpression(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: VoidExpression, Span: span, Message: "void cannot be used as a value"}
}

func NewNotAnLvalue(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: NotAnLvalue, Span: span, Message: "expression is not an lvalue"}
}

func NewNotMutable(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: NotMutable, Span: span, Message: fmt.Sprintf("%q is not mutable", name), Name: name}
}

func NewNotCallable(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: NotCallable, Span: span, Message: "expression is not callable"}
}

func NewNotIndexable(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: NotIndexable, Span: span, Message: "expression is not indexable"}
}

func NewNotIterable(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: NotIterable, Span: span, Message: "expression does not support foreach"}
}

func NewCircularInheritance(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: CircularInheritance, Span: span, Message: fmt.Sprintf("%q is its own ancestor", name), Name: name}
}

func NewOverrideMismatch(span ast.Span, method string) *Diagnostic {
	return &Diagnostic{Kind: OverrideMismatch, Span: span, Message: fmt.Sprintf("%q does not override a base-class method of identical signature", method), Name: method}
}

func NewFinalViolation(span ast.Span, method string) *Diagnostic {
	return &Diagnostic{Kind: FinalViolation, Span: span, Message: fmt.Sprintf("%q overrides a final method", method), Name: method}
}

func NewUnimplementedInterfaceMethod(span ast.Span, class, iface, method string) *Diagnostic {
	return &Diagnostic{Kind: UnimplementedInterfaceMethod, Span: span, Message: fmt.Sprintf("%q does not implement %q of interface %q", class, method, iface), Name: method}
}

func NewUnimplementedAbstractMethod(span ast.Span, class, method string) *Diagnostic {
	return &Diagnostic{Kind: UnimplementedAbstractMethod, Span: span, Message: fmt.Sprintf("%q does not implement abstract method %q", class, method), Name: method}
}

func NewBreakOutsideLoop(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: BreakOutsideLoop, Span: span, Message: "break statement outside of loop"}
}

func NewContinueOutsideLoop(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: ContinueOutsideLoop, Span: span, Message: "continue statement outside of loop"}
}

func NewThisOutsideClass(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: ThisOutsideClass, Span: span, Message: "this used outside of a class method"}
}

func NewSuperOutsideClass(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: SuperOutsideClass, Span: span, Message: "super used outside of a class method"}
}

func NewSuperWithoutBase(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: SuperWithoutBase, Span: span, Message: "super used in a class without a base class"}
}

func NewDuplicateSwitchCase(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: DuplicateSwitchCase, Span: span, Message: "duplicate case value"}
}

func NewDuplicateDefault(span ast.Span) *Diagnostic {
	return &Diagnostic{Kind: DuplicateDefault, Span: span, Message: "duplicate default case"}
}

func NewNotATemplate(span ast.Span, name string) *Diagnostic {
	return &Diagnostic{Kind: NotATemplate, Span: span, Message: fmt.Sprintf("%q is not a template", name), Name: name}
}

func NewWrongTypeArity(span ast.Span, name string, expected, got int) *Diagnostic {
	return &Diagnostic{Kind: WrongTypeArity, Span: span, Message: fmt.Sprintf("%q expects %d type argument(s), got %d", name, expected, got), Name: name}
}
