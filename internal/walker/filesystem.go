package walker

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/temirov/dirtree/internal/types"
)

// FileSystem is the read capability the walker needs from the host.
type FileSystem interface {
	// ListEntries returns the names of the entries of a directory in the order the
	// directory yields them.
	ListEntries(path string) ([]string, error)
	// InspectType classifies the entry at path without following symbolic links.
	InspectType(path string) (types.Kind, error)
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

// NewOSFileSystem constructs the host filesystem capability.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ListEntries reads directory names unsorted.
//
// #nosec G304
func (fileSystem *OSFileSystem) ListEntries(path string) (names []string, err error) {
	directoryHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer func() {
		if closeError := directoryHandle.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()
	return directoryHandle.Readdirnames(-1)
}

// InspectType maps lstat mode bits onto a Kind.
func (fileSystem *OSFileSystem) InspectType(path string) (types.Kind, error) {
	info, statError := os.Lstat(path)
	if statError != nil {
		return 0, statError
	}
	kind, known := KindFromMode(info.Mode())
	if !known {
		return 0, fmt.Errorf(errorUnsupportedModeFormat, path, info.Mode())
	}
	return kind, nil
}

// KindFromMode classifies a file mode. The boolean is false for irregular modes that
// match none of the kinds.
func KindFromMode(mode fs.FileMode) (types.Kind, bool) {
	switch {
	case mode.IsDir():
		return types.KindDirectory, true
	case mode.IsRegular():
		return types.KindFile, true
	case mode&fs.ModeSymlink != 0:
		return types.KindSymbolicLink, true
	case mode&fs.ModeNamedPipe != 0:
		return types.KindFIFO, true
	case mode&fs.ModeSocket != 0:
		return types.KindSocket, true
	case mode&fs.ModeCharDevice != 0:
		return types.KindCharacterDevice, true
	case mode&fs.ModeDevice != 0:
		return types.KindBlockDevice, true
	default:
		return 0, false
	}
}

var _ FileSystem = (*OSFileSystem)(nil)
