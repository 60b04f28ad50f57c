package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/utils"
)

// DirectoryScanner expands command-line paths into the Go files to rewrite
type DirectoryScanner struct {
	fileFilter utils.FileFilter
}

// NewDirectoryScanner creates a scanner. With testsOnly set, directory scans
// only pick up _test.go files; files named explicitly are always kept.
func NewDirectoryScanner(testsOnly bool) *DirectoryScanner {
	filter := utils.DefaultGoFileFilter()
	if testsOnly {
		filter = utils.TestGoFileFilter()
	}
	return &DirectoryScanner{fileFilter: filter}
}

// ScanFiles resolves paths to a sorted, de-duplicated list of Go files.
// Supports Go-style patterns like "./..." for recursive scanning; a plain
// directory contributes only its own files.
func (s *DirectoryScanner) ScanFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, path := range paths {
		matched, err := s.scanPath(path)
		if err != nil {
			return nil, err
		}
		for _, file := range matched {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *DirectoryScanner) scanPath(path string) ([]string, error) {
	recursive := false
	if path == "..." || strings.HasSuffix(path, "/...") {
		recursive = true
		path = strings.TrimSuffix(strings.TrimSuffix(path, "..."), "/")
		if path == "" {
			path = "."
		}
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("stat", cleanPath, err)
	}

	if !info.IsDir() {
		if recursive {
			return nil, errors.ConfigurationError("pattern %s/... does not name a directory", cleanPath)
		}
		if !strings.HasSuffix(cleanPath, ".go") {
			return nil, errors.ConfigurationError("%s is not a Go file", cleanPath).
				WithSuggestion("Pass .go files, directories or ./... patterns")
		}
		return []string{cleanPath}, nil
	}

	options := utils.FileWalkOptions{FileFilter: s.fileFilter}
	if recursive {
		options.DirectoryFilter = utils.DefaultDirectoryFilter()
	} else {
		options.DirectoryFilter = func(string, os.DirEntry) bool { return false }
	}

	files, err := utils.WalkFiles(cleanPath, options)
	if err != nil {
		return nil, errors.WrapWithOperation("scan", fmt.Sprintf("directory %s", cleanPath), err)
	}
	return files, nil
}
