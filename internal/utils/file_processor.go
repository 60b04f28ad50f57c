package utils

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter accepts every .go file
func DefaultGoFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), ".go")
	}
}

// TestGoFileFilter filters for Go test files
func TestGoFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), "_test.go")
	}
}

// DefaultDirectoryFilter skips directories the go tool ignores for ./...
// patterns, plus common VCS and build output directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info fs.DirEntry) bool {
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering. The root
// itself is never filtered out. Results are in lexical order.
func WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, d) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, d) {
			matched = append(matched, path)
		}
		return nil
	})

	return matched, err
}
