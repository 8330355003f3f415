// Package optiontree accumulates the option schema of the documented sources.
//
// Option declarations scattered over many files are merged into a single
// [Tree] keyed by dotted paths such as `plotOptions.series.marker`.
// After all sources were scanned, [Tree.Finalize] filters invalid keys and
// infers the missing types from the statically evaluated defaults.
package optiontree

import (
	"strings"

	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// Node is a single option of the schema.
type Node struct {
	// Path identifies the node, e.g. ["plotOptions", "series", "marker"].
	Path     []string         `json:"-"`
	Doclet   *doclet.Doclet   `json:"doclet"`
	Meta     Meta             `json:"meta"`
	Children map[string]*Node `json:"children"`
}

// Meta is the provenance of a [Node] and its statically evaluated default.
type Meta struct {
	FullName string `json:"fullname"`
	Name     string `json:"name"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	LineEnd  int    `json:"lineEnd,omitempty"`
	Column   int    `json:"column,omitempty"`
	Default  any    `json:"default,omitempty"`
	// HasDefault distinguishes a `null` default from no default at all.
	HasDefault bool `json:"-"`
}

// Provenance is the source location of a declaration.
type Provenance struct {
	Filename string
	Line     int
	LineEnd  int
	Column   int
}

func newNode(path []string) *Node {
	return &Node{
		Path:   path,
		Doclet: &doclet.Doclet{},
		Meta: Meta{
			FullName: strings.Join(path, "."),
			Name:     path[len(path)-1],
		},
		Children: make(map[string]*Node),
	}
}

// FullName returns the dotted path of the node.
func (n *Node) FullName() string { return n.Meta.FullName }

func (n *Node) setProvenance(p Provenance) {
	n.Meta.Filename = p.Filename
	n.Meta.Line = p.Line
	n.Meta.LineEnd = p.LineEnd
	n.Meta.Column = p.Column
}

// SplitPath splits a dotted option path. An empty string is the root.
func SplitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
