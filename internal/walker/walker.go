// Package walker builds the in-memory directory tree and per-kind statistics.
package walker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

// MinimumDepth is the smallest accepted display depth.
const MinimumDepth = 1

const (
	errorAbsolutePathFormat     = "%w: getting absolute path for %s: %w"
	errorInspectRootFormat      = "%w: inspecting root %s: %w"
	errorRootNotDirectoryFormat = "%w: root path must be a directory: %s"
	errorListDirectoryFormat    = "%w: listing directory %s: %w"
	errorInspectEntryFormat     = "%w: inspecting %s: %w"
	errorUnsupportedModeFormat  = "unsupported file mode for %s: %s"
)

var (
	// ErrConfiguration reports a root path that is missing or not a directory.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO reports a failure listing a directory or inspecting an entry.
	ErrIO = errors.New("io error")
)

// ErrorPolicy selects what happens when a directory or entry cannot be read.
type ErrorPolicy int

const (
	// ErrorPolicyAbort stops the walk at the first read failure.
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicySkip leaves unreadable directories unexpanded and drops entries that
	// cannot be inspected, reporting each through Options.Warn.
	ErrorPolicySkip
)

// Options configures a walk. Warn and Progress may be called from several goroutines
// when Parallelism is greater than one.
type Options struct {
	Root            string
	MaxDepth        int
	IncludeHidden   bool
	ExcludePatterns []string
	Parallelism     int
	ErrorPolicy     ErrorPolicy
	Warn            func(path string, err error)
	Progress        func(visited int64)
}

// ClampDepth raises depths below MinimumDepth to MinimumDepth.
func ClampDepth(depth int) int {
	if depth < MinimumDepth {
		return MinimumDepth
	}
	return depth
}

type walkState struct {
	fileSystem FileSystem
	options    Options
	maxDepth   int
	visited    atomic.Int64
	limiter    *semaphore.Weighted
}

// BuildTree walks options.Root and returns the tree together with its statistics.
// It returns only after the whole depth-bounded subtree has been visited.
func BuildTree(ctx context.Context, options Options, fileSystem FileSystem) (*types.Tree, *types.Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	absoluteRootPath, absolutePathError := filepath.Abs(options.Root)
	if absolutePathError != nil {
		return nil, nil, fmt.Errorf(errorAbsolutePathFormat, ErrConfiguration, options.Root, absolutePathError)
	}
	rootKind, inspectError := fileSystem.InspectType(absoluteRootPath)
	if inspectError != nil {
		return nil, nil, fmt.Errorf(errorInspectRootFormat, ErrConfiguration, absoluteRootPath, inspectError)
	}
	if rootKind != types.KindDirectory {
		return nil, nil, fmt.Errorf(errorRootNotDirectoryFormat, ErrConfiguration, absoluteRootPath)
	}

	state := &walkState{
		fileSystem: fileSystem,
		options:    options,
		maxDepth:   ClampDepth(options.MaxDepth),
	}
	state.options.ExcludePatterns = utils.NormalizePatterns(options.ExcludePatterns)
	if options.Parallelism > 1 {
		state.limiter = semaphore.NewWeighted(int64(options.Parallelism))
	}

	rootNode := &types.Node{
		Kind:  types.KindDirectory,
		Level: 0,
		Name:  filepath.Base(absoluteRootPath),
		Path:  absoluteRootPath,
	}
	stats, expandError := state.expand(ctx, rootNode)
	if expandError != nil {
		return nil, nil, expandError
	}
	return &types.Tree{Root: rootNode}, stats, nil
}

// expand lists directory and recurses depth-first into its subdirectories. It returns
// the statistics of the subtree below directory in pre-order.
func (state *walkState) expand(ctx context.Context, directory *types.Node) (*types.Stats, error) {
	subtreeStats := types.NewStats()
	if directory.Level >= state.maxDepth {
		return subtreeStats, nil
	}
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}

	children, readError := state.readChildren(ctx, directory)
	if readError != nil {
		if state.skip(directory.Path, readError) {
			return subtreeStats, nil
		}
		return nil, readError
	}
	directory.Children = types.ExpandedWith(children)

	fragments := make([]*types.Stats, len(children))
	if state.limiter != nil {
		group, groupContext := errgroup.WithContext(ctx)
		for childIndex, child := range children {
			if !state.expandable(child) {
				continue
			}
			childIndex, child := childIndex, child
			group.Go(func() error {
				fragment, childError := state.expand(groupContext, child)
				fragments[childIndex] = fragment
				return childError
			})
		}
		if waitError := group.Wait(); waitError != nil {
			return nil, waitError
		}
	} else {
		for childIndex, child := range children {
			if !state.expandable(child) {
				continue
			}
			fragment, childError := state.expand(ctx, child)
			if childError != nil {
				return nil, childError
			}
			fragments[childIndex] = fragment
		}
	}

	for childIndex, child := range children {
		subtreeStats.Record(child)
		subtreeStats.Merge(fragments[childIndex])
	}
	return subtreeStats, nil
}

// readChildren lists and classifies the visible entries of directory.
func (state *walkState) readChildren(ctx context.Context, directory *types.Node) ([]*types.Node, error) {
	if state.limiter != nil {
		if acquireError := state.limiter.Acquire(ctx, 1); acquireError != nil {
			return nil, acquireError
		}
		defer state.limiter.Release(1)
	}

	entryNames, listError := state.fileSystem.ListEntries(directory.Path)
	if listError != nil {
		return nil, fmt.Errorf(errorListDirectoryFormat, ErrIO, directory.Path, listError)
	}

	children := make([]*types.Node, 0, len(entryNames))
	for _, entryName := range entryNames {
		if !state.options.IncludeHidden && utils.IsHiddenName(entryName) {
			continue
		}
		if utils.MatchesNamePattern(entryName, state.options.ExcludePatterns) {
			continue
		}
		entryPath := filepath.Join(directory.Path, entryName)
		entryKind, inspectError := state.fileSystem.InspectType(entryPath)
		if inspectError != nil {
			wrappedError := fmt.Errorf(errorInspectEntryFormat, ErrIO, entryPath, inspectError)
			if state.skip(entryPath, wrappedError) {
				continue
			}
			return nil, wrappedError
		}
		if entryKind == types.KindDirectory && utils.MatchesDirectoryPattern(entryName, state.options.ExcludePatterns) {
			continue
		}
		children = append(children, &types.Node{
			Kind:     entryKind,
			Level:    directory.Level + 1,
			Name:     entryName,
			Path:     entryPath,
			Children: types.NotExpanded(),
		})
		visited := state.visited.Add(1)
		if state.options.Progress != nil {
			state.options.Progress(visited)
		}
	}
	return children, nil
}

func (state *walkState) expandable(node *types.Node) bool {
	return node.Kind == types.KindDirectory && node.Level < state.maxDepth
}

// skip reports whether the failure should be tolerated under the configured policy.
// Context cancellation is never skipped.
func (state *walkState) skip(path string, err error) bool {
	if state.options.ErrorPolicy != ErrorPolicySkip || !errors.Is(err, ErrIO) {
		return false
	}
	if state.options.Warn != nil {
		state.options.Warn(path, err)
	}
	return true
}
