package generator

import "github.com/toyz/snapcase/internal/models"

// CodeGenerator applies rewritten functions to their source file
type CodeGenerator interface {
	Apply(file *models.SourceFile, rewrites []models.Rewrite) ([]byte, error)
}
