package render_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/dirtree/internal/render"
	"github.com/temirov/dirtree/internal/types"
)

const testRootPath = "/work/project"

func newNode(parent *types.Node, name string, kind types.Kind) *types.Node {
	return &types.Node{
		Kind:     kind,
		Level:    parent.Level + 1,
		Name:     name,
		Path:     parent.Path + "/" + name,
		Children: types.NotExpanded(),
	}
}

// scenarioTree returns root/{a.txt, b/{c.txt}} with stats, b expanded only when
// expandNested is set.
func scenarioTree(expandNested bool) (*types.Tree, *types.Stats) {
	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath}
	fileNode := newNode(root, "a.txt", types.KindFile)
	directoryNode := newNode(root, "b", types.KindDirectory)
	root.Children = types.ExpandedWith([]*types.Node{fileNode, directoryNode})

	stats := types.NewStats()
	stats.Record(fileNode)
	stats.Record(directoryNode)
	if expandNested {
		nestedNode := newNode(directoryNode, "c.txt", types.KindFile)
		directoryNode.Children = types.ExpandedWith([]*types.Node{nestedNode})
		stats.Record(nestedNode)
	}
	return &types.Tree{Root: root}, stats
}

func TestRenderReportScenarios(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		expandNested bool
		options      render.Options
		expected     string
	}{
		{
			name:         "depth_two",
			expandNested: true,
			options:      render.Options{IndentWidth: 2, IncludeSummary: true, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|-- a.txt\n" +
				"`-- b\n" +
				"|  `-- c.txt\n" +
				"\n" +
				"directory: 1 file: 2 ",
		},
		{
			name:         "depth_one",
			expandNested: false,
			options:      render.Options{IndentWidth: 2, IncludeSummary: true, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|-- a.txt\n" +
				"`-- b\n" +
				"\n" +
				"directory: 1 file: 1 ",
		},
		{
			name:         "classify_and_noreport",
			expandNested: true,
			options:      render.Options{IndentWidth: 2, Classify: true, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|-- a.txt\n" +
				"`--/ b\n" +
				"|  `-- c.txt\n" +
				"\n",
		},
		{
			name:         "full_path",
			expandNested: true,
			options:      render.Options{IndentWidth: 2, FullPath: true, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|-- /work/project/a.txt\n" +
				"`-- /work/project/b\n" +
				"|  `-- /work/project/b/c.txt\n" +
				"\n",
		},
		{
			name:         "wide_indent",
			expandNested: true,
			options:      render.Options{IndentWidth: 4, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|---- a.txt\n" +
				"`---- b\n" +
				"|    `---- c.txt\n" +
				"\n",
		},
		{
			name:         "invalid_indent_uses_default",
			expandNested: true,
			options:      render.Options{IndentWidth: 0, LineTerminator: "\n"},
			expected: "/work/project\n" +
				"|-- a.txt\n" +
				"`-- b\n" +
				"|  `-- c.txt\n" +
				"\n",
		},
		{
			name:         "no_indent",
			expandNested: true,
			options:      render.Options{IndentWidth: 4, NoIndent: true, Classify: true, IncludeSummary: true, LineTerminator: "\n"},
			expected: "/work/project\n" +
				" a.txt\n" +
				"/ b\n" +
				" c.txt\n" +
				"\n" +
				"directory: 1 file: 2 ",
		},
		{
			name:         "windows_line_endings",
			expandNested: false,
			options:      render.Options{IndentWidth: 2, IncludeSummary: true, LineTerminator: "\r\n"},
			expected: "/work/project\r\n" +
				"|-- a.txt\r\n" +
				"`-- b\r\n" +
				"\r\n" +
				"directory: 1 file: 1 ",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			tree, stats := scenarioTree(testCase.expandNested)
			require.Equal(t, testCase.expected, render.RenderReport(tree, stats, testCase.options))
		})
	}
}

func TestRenderTreeEmptyAndUnexpandedDirectoriesRenderAlike(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath}
	emptyDirectory := newNode(root, "empty", types.KindDirectory)
	emptyDirectory.Children = types.ExpandedWith(nil)
	unexpandedDirectory := newNode(root, "deep", types.KindDirectory)
	root.Children = types.ExpandedWith([]*types.Node{emptyDirectory, unexpandedDirectory})

	rendered := render.RenderTree(&types.Tree{Root: root}, render.Options{IndentWidth: 2, LineTerminator: "\n"})
	require.Equal(t, "/work/project\n|-- empty\n`-- deep\n", rendered)
}

func TestRenderTreeEmptyRoot(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath, Children: types.ExpandedWith(nil)}
	options := render.Options{IndentWidth: 2, IncludeSummary: true, LineTerminator: "\n"}

	require.Equal(t, "/work/project\n", render.RenderTree(&types.Tree{Root: root}, options))
	require.Equal(t, "/work/project\n\n", render.RenderReport(&types.Tree{Root: root}, types.NewStats(), options))
	require.Equal(t, "", render.RenderTree(nil, options))
}

func TestRenderTreeGuidesAcrossLevels(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath}
	first := newNode(root, "first", types.KindDirectory)
	second := newNode(first, "second", types.KindDirectory)
	deepFile := newNode(second, "deep.txt", types.KindFile)
	second.Children = types.ExpandedWith([]*types.Node{deepFile})
	sibling := newNode(first, "sibling.txt", types.KindFile)
	first.Children = types.ExpandedWith([]*types.Node{second, sibling})
	root.Children = types.ExpandedWith([]*types.Node{first})

	expected := strings.Join([]string{
		"/work/project",
		"`-- first",
		"|  |-- second",
		"|  |  `-- deep.txt",
		"|  `-- sibling.txt",
		"",
	}, "\n")
	require.Equal(t, expected, render.RenderTree(&types.Tree{Root: root}, render.Options{IndentWidth: 2, LineTerminator: "\n"}))
}

func TestTypeMark(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind            types.Kind
		withClassify    string
		withoutClassify string
	}{
		{kind: types.KindDirectory, withClassify: "/", withoutClassify: ""},
		{kind: types.KindFile, withClassify: "", withoutClassify: ""},
		{kind: types.KindBlockDevice, withClassify: "", withoutClassify: ""},
		{kind: types.KindCharacterDevice, withClassify: "", withoutClassify: ""},
		{kind: types.KindSymbolicLink, withClassify: ">", withoutClassify: ">"},
		{kind: types.KindFIFO, withClassify: "|", withoutClassify: ""},
		{kind: types.KindSocket, withClassify: "=", withoutClassify: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.kind.String(), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.withClassify, render.TypeMark(testCase.kind, true))
			require.Equal(t, testCase.withoutClassify, render.TypeMark(testCase.kind, false))
		})
	}
}

func TestRenderTreeSymbolicLinkMarkWithoutClassify(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath}
	link := newNode(root, "current", types.KindSymbolicLink)
	pipe := newNode(root, "queue", types.KindFIFO)
	root.Children = types.ExpandedWith([]*types.Node{link, pipe})

	rendered := render.RenderTree(&types.Tree{Root: root}, render.Options{IndentWidth: 2, LineTerminator: "\n"})
	require.Equal(t, "/work/project\n|--> current\n`-- queue\n", rendered)
}

func TestSummaryLineOrderAndOmission(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "project", Path: testRootPath}
	stats := types.NewStats()
	stats.Record(newNode(root, "sock", types.KindSocket))
	stats.Record(newNode(root, "a", types.KindFile))
	stats.Record(newNode(root, "link", types.KindSymbolicLink))
	stats.Record(newNode(root, "b", types.KindFile))
	stats.Record(newNode(root, "dir", types.KindDirectory))

	require.Equal(t, "directory: 1 file: 2 symboliclink: 1 socket: 1 ", render.SummaryLine(stats))
	require.Equal(t, "", render.SummaryLine(types.NewStats()))
	require.Equal(t, "", render.SummaryLine(nil))
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	tree, stats := scenarioTree(true)
	options := render.Options{IndentWidth: 3, Classify: true, IncludeSummary: true, LineTerminator: "\n"}
	require.Equal(t, render.RenderReport(tree, stats, options), render.RenderReport(tree, stats, options))
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	tree, stats := scenarioTree(false)
	encoded, err := render.RenderJSON(tree, stats, render.Options{IncludeSummary: true, LineTerminator: "\n"})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(encoded, "}\n"))

	var document struct {
		Root struct {
			Type     string `json:"type"`
			Path     string `json:"path"`
			Expanded bool   `json:"expanded"`
			Children []struct {
				Type     string `json:"type"`
				Name     string `json:"name"`
				Level    int    `json:"level"`
				Expanded bool   `json:"expanded"`
			} `json:"children"`
		} `json:"root"`
		Summary map[string]int `json:"summary"`
		Total   int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(encoded), &document))
	require.Equal(t, "directory", document.Root.Type)
	require.Equal(t, testRootPath, document.Root.Path)
	require.True(t, document.Root.Expanded)
	require.Len(t, document.Root.Children, 2)
	require.Equal(t, "a.txt", document.Root.Children[0].Name)
	require.Equal(t, "file", document.Root.Children[0].Type)
	require.Equal(t, 1, document.Root.Children[0].Level)
	require.Equal(t, "b", document.Root.Children[1].Name)
	require.False(t, document.Root.Children[1].Expanded)
	require.Equal(t, map[string]int{"directory": 1, "file": 1}, document.Summary)
	require.Equal(t, 2, document.Total)
}

func TestRenderJSONOmitsSummaryWhenDisabled(t *testing.T) {
	t.Parallel()

	tree, stats := scenarioTree(true)
	encoded, err := render.RenderJSON(tree, stats, render.Options{LineTerminator: "\n"})
	require.NoError(t, err)
	require.NotContains(t, encoded, `"summary"`)
	require.Contains(t, encoded, `"total": 3`)

	_, err = render.RenderJSON(nil, stats, render.Options{})
	require.Error(t, err)
}

func TestRenderTreeMarksPrecedeNames(t *testing.T) {
	t.Parallel()

	root := &types.Node{Kind: types.KindDirectory, Name: "r", Path: "/r"}
	link := newNode(root, "ln", types.KindSymbolicLink)
	socket := newNode(root, "sock", types.KindSocket)
	pipe := newNode(root, "pipe", types.KindFIFO)
	directory := newNode(root, "b", types.KindDirectory)
	root.Children = types.ExpandedWith([]*types.Node{link, socket, pipe, directory})

	rendered := render.RenderTree(&types.Tree{Root: root}, render.Options{IndentWidth: 2, Classify: true, LineTerminator: "\n"})
	require.Equal(t, "/r\n|--> ln\n|--= sock\n|--| pipe\n`--/ b\n", rendered)

	rendered = render.RenderTree(&types.Tree{Root: root}, render.Options{IndentWidth: 2, Classify: true, FullPath: true, LineTerminator: "\n"})
	require.Equal(t, "/r\n|--> /r/ln\n|--= /r/sock\n|--| /r/pipe\n`--/ /r/b\n", rendered)
}
