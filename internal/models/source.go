package models

import (
	"go/ast"
	"go/token"

	"github.com/toyz/snapcase/internal/errors"
)

// SourceFile is a parsed Go file together with the functions that carry the
// rewrite trigger.
type SourceFile struct {
	Path        string
	Source      []byte
	FileSet     *token.FileSet
	AST         *ast.File
	PackageName string
	Functions   []AnnotatedFunction
	Warnings    []errors.SnapcaseError // non-fatal findings, e.g. a misspelled trigger
}

// AnnotatedFunction ties a FunctionDefinition to the byte span of its
// declaration (doc comment included) in SourceFile.Source.
type AnnotatedFunction struct {
	Definition *FunctionDefinition
	Start      int
	End        int
}

// Rewrite replaces the span [Start, End) of a source file with Function
type Rewrite struct {
	Start    int
	End      int
	Function *FunctionDefinition
}
