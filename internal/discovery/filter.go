package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters binaries by file name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the binaries whose file name matches pattern,
// ignoring case. Supports patterns like "*.Tests.dll" or "*Payment*";
// a pattern without wildcards matches as a substring.
func (f *Filter) FilterByName(binaries []string, pattern string) []string {
	if pattern == "" {
		return binaries
	}

	pattern = strings.ToLower(pattern)
	var filtered []string
	for _, binary := range binaries {
		if matchName(strings.ToLower(filepath.Base(binary)), pattern) {
			filtered = append(filtered, binary)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// Every literal part of a "*" pattern must appear, in order
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
		found = true
	}
	return found
}
