// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skippedDirs are tool and build-output directories that never hold
// hand-written build files.
var skippedDirs = map[string]struct{}{
	"build":        {},
	"node_modules": {},
}

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension. Hidden directories and build output
// are not descended into. The result is sorted.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}
	return find(rootPath, func(name string) bool { return strings.HasSuffix(name, extension) })
}

// FindFilesNamed is like FindFilesByExtension but matches whole file names.
func FindFilesNamed(rootPath string, name string) ([]string, error) {
	if name == "" {
		panic("name must not be empty")
	}
	return find(rootPath, func(n string) bool { return n == name })
}

func find(rootPath string, match func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := skippedDirs[name]
	return ok
}
