// Package render turns a walked tree into the textual report.
package render

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/temirov/dirtree/internal/types"
)

const (
	// DefaultIndentWidth is the width of one level of guides and branch dashes.
	DefaultIndentWidth = 2

	verticalGuide     = "|"
	horizontalGuide   = "-"
	cornerGuide       = "`"
	blankFill         = " "
	nameSeparator     = " "
	unixLineEnding    = "\n"
	windowsLineEnding = "\r\n"
	windowsOS         = "windows"

	directoryMark    = "/"
	socketMark       = "="
	fifoMark         = "|"
	symbolicLinkMark = ">"

	summaryEntryFormat = "%s: %d "
)

// Options controls how the report is drawn.
type Options struct {
	FullPath       bool
	Classify       bool
	NoIndent       bool
	IndentWidth    int
	IncludeSummary bool
	LineTerminator string
}

// PlatformLineTerminator returns the line ending convention of the host.
func PlatformLineTerminator() string {
	if runtime.GOOS == windowsOS {
		return windowsLineEnding
	}
	return unixLineEnding
}

// marks holds the precomputed glyph sequences for one set of options.
type marks struct {
	continuation string
	branch       string
	corner       string
	eol          string
}

func newMarks(options Options) marks {
	indentWidth := options.IndentWidth
	if indentWidth < 1 {
		indentWidth = DefaultIndentWidth
	}
	eol := options.LineTerminator
	if eol == "" {
		eol = PlatformLineTerminator()
	}
	if options.NoIndent {
		return marks{eol: eol}
	}
	dashes := strings.Repeat(horizontalGuide, indentWidth)
	return marks{
		continuation: verticalGuide + strings.Repeat(blankFill, indentWidth),
		branch:       verticalGuide + dashes,
		corner:       cornerGuide + dashes,
		eol:          eol,
	}
}

// RenderTree draws the tree: the root path on the first line followed by one line per
// descendant in depth-first pre-order.
func RenderTree(tree *types.Tree, options Options) string {
	if tree == nil || tree.Root == nil {
		return ""
	}
	glyphs := newMarks(options)
	var builder strings.Builder
	builder.WriteString(tree.Root.Path)
	builder.WriteString(glyphs.eol)
	writeChildren(&builder, tree.Root, options, glyphs)
	return builder.String()
}

// writeChildren emits the children of node. Directories whose children were never
// materialized are drawn as leaves.
func writeChildren(builder *strings.Builder, node *types.Node, options Options, glyphs marks) {
	if node.Kind != types.KindDirectory || !node.Children.Expanded() {
		return
	}
	childNodes := node.Children.Nodes()
	lastIndex := len(childNodes) - 1
	for childIndex, child := range childNodes {
		writeNode(builder, child, childIndex == lastIndex, options, glyphs)
		writeChildren(builder, child, options, glyphs)
	}
}

func writeNode(builder *strings.Builder, node *types.Node, isLast bool, options Options, glyphs marks) {
	for level := 1; level < node.Level; level++ {
		builder.WriteString(glyphs.continuation)
	}
	if isLast {
		builder.WriteString(glyphs.corner)
	} else {
		builder.WriteString(glyphs.branch)
	}
	builder.WriteString(TypeMark(node.Kind, options.Classify))
	builder.WriteString(nameSeparator)
	if options.FullPath {
		builder.WriteString(node.Path)
	} else {
		builder.WriteString(node.Name)
	}
	builder.WriteString(glyphs.eol)
}

// TypeMark returns the marker drawn between the branch glyphs and the name. Symbolic
// links are always marked; directories, sockets and FIFOs only when classify is set.
func TypeMark(kind types.Kind, classify bool) string {
	switch kind {
	case types.KindSymbolicLink:
		return symbolicLinkMark
	case types.KindDirectory:
		if classify {
			return directoryMark
		}
	case types.KindSocket:
		if classify {
			return socketMark
		}
	case types.KindFIFO:
		if classify {
			return fifoMark
		}
	case types.KindFile, types.KindBlockDevice, types.KindCharacterDevice:
	}
	return ""
}

// SummaryLine lists the count of every non-empty kind in summary order.
func SummaryLine(stats *types.Stats) string {
	if stats == nil {
		return ""
	}
	var builder strings.Builder
	for _, kind := range types.AllKinds() {
		count := stats.Count(kind)
		if count == 0 {
			continue
		}
		fmt.Fprintf(&builder, summaryEntryFormat, kind, count)
	}
	return builder.String()
}

// RenderReport returns the tree, a line terminator and, when enabled, the summary line.
func RenderReport(tree *types.Tree, stats *types.Stats, options Options) string {
	glyphs := newMarks(options)
	report := RenderTree(tree, options) + glyphs.eol
	if options.IncludeSummary {
		report += SummaryLine(stats)
	}
	return report
}

// JSONReport is the document written for the json format.
type JSONReport struct {
	Root    *types.Node    `json:"root"`
	Summary map[string]int `json:"summary,omitempty"`
	Total   int            `json:"total"`
}

// RenderJSON encodes the tree and, when enabled, the per-kind counts.
func RenderJSON(tree *types.Tree, stats *types.Stats, options Options) (string, error) {
	if tree == nil || tree.Root == nil {
		return "", fmt.Errorf("render: tree is empty")
	}
	document := JSONReport{Root: tree.Root}
	if stats != nil {
		document.Total = stats.Total()
		if options.IncludeSummary {
			document.Summary = make(map[string]int)
			for _, kind := range types.AllKinds() {
				if count := stats.Count(kind); count > 0 {
					document.Summary[kind.String()] = count
				}
			}
		}
	}
	encoded, marshalError := json.MarshalIndent(document, "", "  ")
	if marshalError != nil {
		return "", fmt.Errorf("render: encoding json report: %w", marshalError)
	}
	return string(encoded) + newMarks(options).eol, nil
}
