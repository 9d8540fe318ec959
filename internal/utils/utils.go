// Package utils contains general helper functions used across the dirtree tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration and ignore file constants used across the project.
const (
	// IgnoreFileName lists exclusion patterns at the root of a scanned directory.
	IgnoreFileName = ".treeignore"
	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = ".dirtree.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".dirtree"
	// HiddenEntryPrefix marks entries hidden by convention.
	HiddenEntryPrefix = "."
)

const directoryPatternSuffix = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizePatterns trims patterns, drops empty ones and removes duplicates.
func NormalizePatterns(patterns []string) []string {
	trimmedPatterns := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		trimmedPatterns = append(trimmedPatterns, trimmedPattern)
	}
	return DeduplicatePatterns(trimmedPatterns)
}

// IsHiddenName reports whether an entry name is hidden by the dot-file convention.
func IsHiddenName(entryName string) bool {
	return strings.HasPrefix(entryName, HiddenEntryPrefix)
}

// MatchesNamePattern reports whether entryName matches a pattern that applies to every
// entry kind. Patterns ending with a slash are directory-only and never match here.
func MatchesNamePattern(entryName string, patterns []string) bool {
	for _, patternValue := range patterns {
		if strings.HasSuffix(patternValue, directoryPatternSuffix) {
			continue
		}
		isMatched, matchError := filepath.Match(patternValue, entryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// MatchesDirectoryPattern reports whether a directory named entryName matches a
// pattern ending with a slash.
func MatchesDirectoryPattern(entryName string, patterns []string) bool {
	for _, patternValue := range patterns {
		if !strings.HasSuffix(patternValue, directoryPatternSuffix) {
			continue
		}
		patternDirectory := strings.TrimSuffix(patternValue, directoryPatternSuffix)
		isMatched, matchError := filepath.Match(patternDirectory, entryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}
