package errors

import "fmt"

// NewMissingDependencyError reports a framework that cannot be located in the
// consumer's dependency graph.
func NewMissingDependencyError(logicalName string) *BaseError {
	return Newf(MissingDependencyErrorCode, "missing dependency %q: not required by go.mod", logicalName).
		WithContext("dependency", logicalName).
		WithSuggestions(
			fmt.Sprintf("Add the %s module to go.mod (go get <module path>)", logicalName),
			fmt.Sprintf("Map %q to its import path under 'frameworks' in .snapcase.yaml", logicalName),
		)
}

// NewUnsupportedReceiverError reports a method receiver on an expanded function.
func NewUnsupportedReceiverError(function string, loc SourceLocation) *BaseError {
	return Newf(UnsupportedReceiverErrorCode, "function %s: method receivers are not supported", function).
		WithLocation(loc).
		WithContext("function", function).
		WithSuggestion("Declare the test as a plain function instead of a method")
}

// NewMultipleContextCandidatesError reports more than one parameter carrying the
// context marker. Only raised in strict mode.
func NewMultipleContextCandidatesError(function string, names []string, loc SourceLocation) *BaseError {
	return Newf(MultipleContextCandidatesErrorCode, "function %s: %d parameters carry the context marker %v", function, len(names), names).
		WithLocation(loc).
		WithContext("function", function).
		WithContext("candidates", names).
		WithSuggestion("Keep the context marker on a single parameter")
}
