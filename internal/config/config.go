// Package config loads YAML configuration and ignore files for the dirtree CLI.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/dirtree/internal/utils"
)

const commentPrefix = "#"

// LoadIgnoreFilePatterns reads exclusion globs from an ignore file, one per line.
// Blank lines and lines starting with '#' are skipped. A missing file yields no
// patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadCombinedExclusionPatterns merges the root's ignore file with the provided
// exclusion patterns, dropping blanks and duplicates.
func LoadCombinedExclusionPatterns(absoluteRootPath string, exclusionPatterns []string) ([]string, error) {
	ignoreFilePath := filepath.Join(absoluteRootPath, utils.IgnoreFileName)
	filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, absoluteRootPath, loadError)
	}
	combinedPatterns := append(filePatterns, exclusionPatterns...)
	return utils.NormalizePatterns(combinedPatterns), nil
}
