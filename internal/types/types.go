// Package types holds the tree model shared by the walker and the renderer.
package types

import (
	"encoding/json"
	"fmt"
)

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
)

// Kind is the filesystem type of a tree entry.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
	KindBlockDevice
	KindCharacterDevice
	KindSymbolicLink
	KindFIFO
	KindSocket
)

// kindCount is the number of Kind values; Stats buckets are indexed by Kind.
const kindCount = int(KindSocket) + 1

// AllKinds returns every Kind in summary order.
func AllKinds() []Kind {
	return []Kind{
		KindDirectory,
		KindFile,
		KindBlockDevice,
		KindCharacterDevice,
		KindSymbolicLink,
		KindFIFO,
		KindSocket,
	}
}

// String returns the lowercase name used in summaries and JSON.
func (kind Kind) String() string {
	switch kind {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindBlockDevice:
		return "blockdevice"
	case KindCharacterDevice:
		return "characterdevice"
	case KindSymbolicLink:
		return "symboliclink"
	case KindFIFO:
		return "fifo"
	case KindSocket:
		return "socket"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// Valid reports whether kind is one of the enumerated values.
func (kind Kind) Valid() bool {
	return kind >= KindDirectory && kind <= KindSocket
}

// MarshalJSON encodes the kind by name.
func (kind Kind) MarshalJSON() ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid node kind %d", int(kind))
	}
	return json.Marshal(kind.String())
}

// Children holds the sub-entries of a directory node. An unexpanded value means the
// directory was never listed (depth limit or skipped read); an expanded value with no
// nodes is an empty directory.
type Children struct {
	expanded bool
	nodes    []*Node
}

// NotExpanded returns the absent children value.
func NotExpanded() Children {
	return Children{}
}

// ExpandedWith returns a materialized children sequence.
func ExpandedWith(nodes []*Node) Children {
	if nodes == nil {
		nodes = []*Node{}
	}
	return Children{expanded: true, nodes: nodes}
}

// Expanded reports whether the directory was listed.
func (children Children) Expanded() bool {
	return children.expanded
}

// Nodes returns the ordered child nodes, nil when not expanded.
func (children Children) Nodes() []*Node {
	return children.nodes
}

// Len returns the number of materialized children.
func (children Children) Len() int {
	return len(children.nodes)
}

// Node represents one filesystem entry of the tree.
type Node struct {
	Kind     Kind     `json:"type"`
	Level    int      `json:"level"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Children Children `json:"-"`
}

type jsonNode struct {
	Kind     Kind    `json:"type"`
	Level    int     `json:"level"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Children []*Node `json:"children,omitempty"`
	Expanded bool    `json:"expanded,omitempty"`
}

// MarshalJSON keeps the absent/empty distinction through the "expanded" field.
func (node *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonNode{
		Kind:     node.Kind,
		Level:    node.Level,
		Name:     node.Name,
		Path:     node.Path,
		Children: node.Children.Nodes(),
		Expanded: node.Children.Expanded(),
	})
}

// Tree is the root node of one walk plus everything reachable from it.
type Tree struct {
	Root *Node `json:"root"`
}

// Stats groups every visited node by kind in encounter order.
type Stats struct {
	All     []*Node
	buckets [kindCount][]*Node
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{}
}

// Record appends node to its kind bucket and to All.
func (stats *Stats) Record(node *Node) {
	stats.All = append(stats.All, node)
	if node.Kind.Valid() {
		stats.buckets[node.Kind] = append(stats.buckets[node.Kind], node)
	}
}

// Merge appends every node recorded in other, preserving its order.
func (stats *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	stats.All = append(stats.All, other.All...)
	for index := range stats.buckets {
		stats.buckets[index] = append(stats.buckets[index], other.buckets[index]...)
	}
}

// Nodes returns the nodes of the given kind.
func (stats *Stats) Nodes(kind Kind) []*Node {
	if !kind.Valid() {
		return nil
	}
	return stats.buckets[kind]
}

// Count returns the number of nodes of the given kind.
func (stats *Stats) Count(kind Kind) int {
	return len(stats.Nodes(kind))
}

// Total returns the number of nodes recorded.
func (stats *Stats) Total() int {
	return len(stats.All)
}
