package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// WriteFileAtomic replaces filename with content, keeping its permissions.
// The content is written to a temporary file in the same directory first so
// a failed write never leaves a truncated source file behind.
func WriteFileAtomic(filename string, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(filename); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, filename)
}

// UnifiedDiff renders the difference between the original and rewritten
// contents of filename in unified format, as gofmt -d does
func UnifiedDiff(filename string, original, rewritten []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(rewritten)),
		FromFile: filepath.ToSlash(filepath.Join("a", filename)),
		ToFile:   filepath.ToSlash(filepath.Join("b", filename)),
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", filename, err)
	}
	return diff, nil
}
