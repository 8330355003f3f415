package optiontree

import (
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// Keys produced by malformed declarations, they are dropped before type inference.
var invalidKeys = []string{"", "undefined"}

// Finalize prepares the tree for consumption. It runs only once, subsequent
// calls do nothing. It:
//  1. removes children keyed with an empty string or "undefined"
//  2. infers the type of every node without an explicit one
//  3. rewrites meta filenames with shorten, unless it is nil
func (t *Tree) Finalize(shorten func(filename string) string) {
	if t.finalized {
		return
	}
	t.finalized = true
	dropInvalidKeys(t.roots)
	t.Walk(func(n *Node) bool {
		dropInvalidKeys(n.Children)
		InferType(n)
		if shorten != nil && n.Meta.Filename != "" {
			n.Meta.Filename = shorten(n.Meta.Filename)
		}
		return true
	})
}

// Finalized reports whether [Tree.Finalize] was already called.
func (t *Tree) Finalized() bool { return t.finalized }

func dropInvalidKeys(children map[string]*Node) {
	for _, key := range invalidKeys {
		delete(children, key)
	}
}

// InferType assigns a type to n unless it already has one:
//   - nodes with children are of type Object
//   - nodes with a default are classified by it, a default may yield
//     several types at once, e.g. "5" is both a Number and a String
//   - nodes with a default which fits no class are of type Object
//   - nodes with neither children nor a default stay untyped
//
// The documented @default takes precedence over the evaluated one.
func InferType(n *Node) {
	if n.Doclet == nil {
		n.Doclet = &doclet.Doclet{}
	}
	if n.Doclet.HasType() {
		return
	}
	if len(n.Children) > 0 {
		n.Doclet.Type = doclet.NewType("Object")
		return
	}
	value, ok := defaultValue(n)
	if !ok {
		return
	}
	var names []string
	switch v := value.(type) {
	case bool:
		names = append(names, "Boolean")
	case float64:
		names = append(names, "Number")
	case string:
		// A numeric string is typed as both Number and String.
		// It is kept as observed until the product owners decide otherwise.
		if isNumeric(v) {
			names = append(names, "Number")
		}
		names = append(names, "String")
	}
	if len(names) == 0 {
		names = append(names, "Object")
	}
	n.Doclet.Type = doclet.NewType(names...)
}

func defaultValue(n *Node) (any, bool) {
	if n.Doclet.Defaultvalue != nil {
		return n.Doclet.Defaultvalue, true
	}
	return n.Meta.Default, n.Meta.HasDefault
}
