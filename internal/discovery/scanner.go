package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner scans a directory tree for candidate test binaries
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all binaries with an applicable extension under root, in
// lexical order
func (s *Scanner) Scan(root string) ([]string, error) {
	var binaries []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("binary path does not exist: %s", root)
	}
	if !info.IsDir() {
		if IsApplicable(root) {
			return []string{root}, nil
		}
		return nil, fmt.Errorf("not a directory or test binary: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if IsApplicable(d.Name()) {
			binaries = append(binaries, path)
		}
		return nil
	})

	return binaries, err
}
