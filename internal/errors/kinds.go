package errors

// Kind classifies a Diagnostic by its taxonomy category. Kept as a string
// enum (rather than an int) so diagnostic dumps and snapshot tests read
// directly without a lookup table.
type Kind string

const (
	// Lookup
	UndefinedName      Kind = "UndefinedName"
	UndefinedField     Kind = "UndefinedField"
	UndefinedMethod    Kind = "UndefinedMethod"
	NoMatchingOverload Kind = "NoMatchingOverload"
	Ambiguous          Kind = "Ambiguous"

	// Declaration
	DuplicateType     Kind = "DuplicateType"
	DuplicateFunction Kind = "DuplicateFunction"
	DuplicateGlobal   Kind = "DuplicateGlobal"
	InvalidNamespace  Kind = "InvalidNamespace"

	// Typing
	TypeMismatch   Kind = "TypeMismatch"
	VoidExpression Kind = "VoidExpression"
	NotAnLvalue    Kind = "NotAnLvalue"
	NotMutable     Kind = "NotMutable"
	NotCallable    Kind = "NotCallable"
	NotIndexable   Kind = "NotIndexable"
	NotIterable    Kind = "NotIterable"

	// Inheritance
	CircularInheritance          Kind = "CircularInheritance"
	OverrideMismatch             Kind = "OverrideMismatch"
	FinalViolation               Kind = "FinalViolation"
	UnimplementedInterfaceMethod Kind = "UnimplementedInterfaceMethod"
	UnimplementedAbstractMethod  Kind = "UnimplementedAbstractMethod"

	// Misuse
	BreakOutsideLoop    Kind = "BreakOutsideLoop"
	ContinueOutsideLoop Kind = "ContinueOutsideLoop"
	ThisOutsideClass    Kind = "ThisOutsideClass"
	SuperOutsideClass   Kind = "SuperOutsideClass"
	SuperWithoutBase    Kind = "SuperWithoutBase"
	DuplicateSwitchCase Kind = "DuplicateSwitchCase"
	DuplicateDefault    Kind = "DuplicateDefault"

	// Template
	NotATemplate   Kind = "NotATemplate"
	WrongTypeArity Kind = "WrongTypeArity"
)
