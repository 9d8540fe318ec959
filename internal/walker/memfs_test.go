package walker_test

import (
	"errors"
	"io/fs"
	"path"
	"sync"

	"github.com/temirov/dirtree/internal/types"
)

// memoryFileSystem is an in-memory FileSystem keyed by slash-separated absolute paths.
type memoryFileSystem struct {
	mutex       sync.Mutex
	kinds       map[string]types.Kind
	entries     map[string][]string
	listErrors  map[string]error
	statErrors  map[string]error
	listedPaths []string
}

func newMemoryFileSystem(root string) *memoryFileSystem {
	fileSystem := &memoryFileSystem{
		kinds:      map[string]types.Kind{},
		entries:    map[string][]string{},
		listErrors: map[string]error{},
		statErrors: map[string]error{},
	}
	fileSystem.kinds[root] = types.KindDirectory
	fileSystem.entries[root] = []string{}
	return fileSystem
}

// add registers an entry under parent in call order.
func (fileSystem *memoryFileSystem) add(parent string, name string, kind types.Kind) string {
	entryPath := path.Join(parent, name)
	fileSystem.kinds[entryPath] = kind
	fileSystem.entries[parent] = append(fileSystem.entries[parent], name)
	if kind == types.KindDirectory {
		fileSystem.entries[entryPath] = []string{}
	}
	return entryPath
}

func (fileSystem *memoryFileSystem) ListEntries(directoryPath string) ([]string, error) {
	fileSystem.mutex.Lock()
	defer fileSystem.mutex.Unlock()
	fileSystem.listedPaths = append(fileSystem.listedPaths, directoryPath)
	if listError, exists := fileSystem.listErrors[directoryPath]; exists {
		return nil, listError
	}
	names, exists := fileSystem.entries[directoryPath]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return append([]string(nil), names...), nil
}

func (fileSystem *memoryFileSystem) InspectType(entryPath string) (types.Kind, error) {
	fileSystem.mutex.Lock()
	defer fileSystem.mutex.Unlock()
	if statError, exists := fileSystem.statErrors[entryPath]; exists {
		return 0, statError
	}
	kind, exists := fileSystem.kinds[entryPath]
	if !exists {
		return 0, fs.ErrNotExist
	}
	return kind, nil
}

var errPermissionDenied = errors.New("permission denied")
