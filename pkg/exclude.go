package dupefind

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// ExcludeManager filters walk paths against a set of regular expression
// patterns. Patterns match against root-relative paths with forward-slash
// separators.
type ExcludeManager struct {
	patterns []*regexp.Regexp
}

// NewExcludeManager compiles the given patterns. An invalid pattern is an
// error; exclusion rules that silently match nothing hide files from the
// wrong side of the filter.
func NewExcludeManager(patterns []string) (*ExcludeManager, error) {
	em := &ExcludeManager{
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, patternStr := range patterns {
		pattern, err := regexp.Compile(patternStr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", patternStr, err)
		}
		em.patterns = append(em.patterns, pattern)
	}
	return em, nil
}

// ShouldExclude checks if a path should be excluded based on patterns
func (em *ExcludeManager) ShouldExclude(relativePath string) bool {
	// Normalise path separators to forward slashes for consistent pattern matching
	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range em.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}

// HasPatterns returns true if there are any exclude patterns loaded
func (em *ExcludeManager) HasPatterns() bool {
	return len(em.patterns) > 0
}

// AddPattern adds a new exclude pattern
func (em *ExcludeManager) AddPattern(patternStr string) error {
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid exclude pattern %q: %w", patternStr, err)
	}

	em.patterns = append(em.patterns, pattern)
	return nil
}
