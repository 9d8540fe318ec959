// Package report persists the rendered tree.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// DefaultOutputFileName is used when no output path is configured.
const DefaultOutputFileName = "tree_out"

const (
	reportFileMode          = 0o644
	temporaryFilePattern    = ".dirtree-*"
	errorResolvePathFormat  = "%w: resolving output path %s: %w"
	errorCreateTempFormat   = "%w: creating temporary file in %s: %w"
	errorWriteReportFormat  = "%w: writing %s: %w"
	errorRenameReportFormat = "%w: moving report into %s: %w"
	errorCopyFormat         = "copying report to clipboard: %w"
)

// ErrWrite reports a failure persisting the report.
var ErrWrite = errors.New("write error")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// ClipboardCopier implements Copier using github.com/atotto/clipboard.
type ClipboardCopier struct{}

// NewClipboardCopier constructs a clipboard-backed Copier.
func NewClipboardCopier() *ClipboardCopier {
	return &ClipboardCopier{}
}

// Copy writes text to the system clipboard.
func (copier *ClipboardCopier) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*ClipboardCopier)(nil)

// Result describes a written report.
type Result struct {
	Path  string
	Bytes int64
}

// Write stores content at outputPath, resolved against workingDirectory when relative.
// The content is written to a temporary file in the destination directory and renamed
// into place, so a failed write never leaves a partial report behind.
func Write(workingDirectory string, outputPath string, content string) (Result, error) {
	if outputPath == "" {
		outputPath = DefaultOutputFileName
	}
	absoluteOutputPath := outputPath
	if !filepath.IsAbs(absoluteOutputPath) {
		if workingDirectory == "" {
			resolvedPath, absoluteError := filepath.Abs(outputPath)
			if absoluteError != nil {
				return Result{}, fmt.Errorf(errorResolvePathFormat, ErrWrite, outputPath, absoluteError)
			}
			absoluteOutputPath = resolvedPath
		} else {
			absoluteOutputPath = filepath.Join(workingDirectory, outputPath)
		}
	}
	absoluteOutputPath = filepath.Clean(absoluteOutputPath)

	destinationDirectory := filepath.Dir(absoluteOutputPath)
	temporaryFile, createError := os.CreateTemp(destinationDirectory, temporaryFilePattern)
	if createError != nil {
		return Result{}, fmt.Errorf(errorCreateTempFormat, ErrWrite, destinationDirectory, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	written, writeError := temporaryFile.WriteString(content)
	if writeError != nil {
		_ = temporaryFile.Close()
		return Result{}, fmt.Errorf(errorWriteReportFormat, ErrWrite, absoluteOutputPath, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return Result{}, fmt.Errorf(errorWriteReportFormat, ErrWrite, absoluteOutputPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, reportFileMode); chmodError != nil {
		return Result{}, fmt.Errorf(errorWriteReportFormat, ErrWrite, absoluteOutputPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, absoluteOutputPath); renameError != nil {
		return Result{}, fmt.Errorf(errorRenameReportFormat, ErrWrite, absoluteOutputPath, renameError)
	}
	committed = true
	return Result{Path: absoluteOutputPath, Bytes: int64(written)}, nil
}

// CopyToClipboard hands content to copier.
func CopyToClipboard(copier Copier, content string) error {
	if copier == nil {
		return nil
	}
	if copyError := copier.Copy(content); copyError != nil {
		return fmt.Errorf(errorCopyFormat, copyError)
	}
	return nil
}
