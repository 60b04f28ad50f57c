package parser

import (
	"github.com/toyz/snapcase/internal/models"
)

// SourceParser parses Go source and collects the functions carrying the
// rewrite trigger
type SourceParser interface {
	ParseFile(path string) (*models.SourceFile, error)
	ParseSource(filename string, src []byte) (*models.SourceFile, error)
}
