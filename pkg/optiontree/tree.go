package optiontree

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nieomylnieja/optdoc/internal/jsast"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// Tree is the path-keyed option schema built during a single scan pass.
// It is not safe for concurrent use.
type Tree struct {
	roots      map[string]*Node
	tombstones map[string]struct{}
	finalized  bool
}

// New creates an empty [Tree].
func New() *Tree {
	return &Tree{
		roots:      make(map[string]*Node),
		tombstones: make(map[string]struct{}),
	}
}

// Resolve returns the node at path, creating it and any missing ancestors.
// Repeated calls with the same path return the same node.
// It returns nil for an empty path.
func (t *Tree) Resolve(path []string) *Node {
	if len(path) == 0 {
		return nil
	}
	children := t.roots
	var node *Node
	for i, segment := range path {
		child, ok := children[segment]
		if !ok {
			child = newNode(append([]string(nil), path[:i+1]...))
			children[segment] = child
		}
		node = child
		children = child.Children
	}
	return node
}

// Lookup returns the node at path without creating it.
func (t *Tree) Lookup(path []string) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	children := t.roots
	var node *Node
	for _, segment := range path {
		child, ok := children[segment]
		if !ok {
			return nil, false
		}
		node = child
		children = child.Children
	}
	return node, true
}

// Declare resolves the root of an option declaration found at prov.
// Provenance is last-write-wins for the declared node; ancestors only
// receive it when they have none yet.
// It returns false if the path was removed.
func (t *Tree) Declare(path []string, prov Provenance) (*Node, bool) {
	if t.isRemoved(path) {
		return nil, false
	}
	node := t.Resolve(path)
	if node == nil {
		return nil, false
	}
	for i := 1; i < len(path); i++ {
		if ancestor, _ := t.Lookup(path[:i]); ancestor.Meta.Filename == "" {
			ancestor.setProvenance(prov)
		}
	}
	node.setProvenance(prov)
	return node, true
}

var ignoreRegex = regexp.MustCompile(`@ignore(-option)?\b`)

// Decorate adds the object literal property prop as a child of parent.
// Provenance and the statically evaluated default of the property are
// overwritten by the latest declaration; nested object literals are decorated
// recursively as children. A property marked with @ignore or @ignore-option
// is removed from the tree instead.
// It returns nil if the property was not added.
func (t *Tree) Decorate(parent []string, prop *jsast.Property, filename string) *Node {
	if prop == nil {
		return nil
	}
	path := append(append([]string(nil), parent...), prop.Key)
	if isIgnored(prop) {
		t.Remove(path)
		return nil
	}
	if t.isRemoved(path) {
		return nil
	}
	node := t.Resolve(path)
	node.setProvenance(propertyProvenance(prop, filename))
	node.Meta.Default, node.Meta.HasDefault = nil, false

	switch value := prop.Value.(type) {
	case *jsast.ObjectExpression:
		for _, child := range value.Properties {
			t.Decorate(path, child, filename)
		}
	default:
		if v, ok := Evaluate(value); ok {
			node.Meta.Default, node.Meta.HasDefault = v, true
		}
	}
	return node
}

func isIgnored(prop *jsast.Property) bool {
	for _, c := range prop.Leading() {
		if c.IsDoc() && ignoreRegex.MatchString(c.Text) {
			return true
		}
	}
	return false
}

func propertyProvenance(prop *jsast.Property, filename string) Provenance {
	loc := prop.KeyLoc
	if leading := prop.Leading(); len(leading) > 0 {
		loc = leading[0].Loc
	}
	return Provenance{
		Filename: filename,
		Line:     loc.Start.Line,
		LineEnd:  loc.End.Line,
		Column:   loc.Start.Column,
	}
}

// Augment merges the documentation d into the node at path.
// Fields already documented on the node are kept. Provenance is only set
// when the node has none, which is the case for free floating @apioption comments.
// It returns false if the path was removed.
func (t *Tree) Augment(path []string, d *doclet.Doclet, prov Provenance) (*Node, bool) {
	if d == nil || len(path) == 0 || t.isRemoved(path) {
		return nil, false
	}
	node := t.Resolve(path)
	node.Doclet.MergeMissing(optionDoclet(d))
	if node.Meta.Filename == "" {
		node.setProvenance(prov)
	}
	return node, true
}

// optionDoclet strips the symbol identity of a comment merged into an option,
// the option path is the identity.
func optionDoclet(d *doclet.Doclet) *doclet.Doclet {
	c := d.Clone()
	c.Name, c.Longname, c.Memberof, c.Kind, c.Scope = "", "", "", "", ""
	c.Apioption, c.Optionparent, c.Ignored = false, false, false
	c.Meta = nil
	return c
}

// Remove deletes the node at path together with its subtree.
// The path stays removed: later declarations at or below it are skipped,
// so the outcome does not depend on the order in which files are scanned.
func (t *Tree) Remove(path []string) {
	if len(path) == 0 {
		return
	}
	t.tombstones[strings.Join(path, ".")] = struct{}{}
	if len(path) == 1 {
		delete(t.roots, path[0])
		return
	}
	if parent, ok := t.Lookup(path[:len(path)-1]); ok {
		delete(parent.Children, path[len(path)-1])
	}
}

func (t *Tree) isRemoved(path []string) bool {
	for i := 1; i <= len(path); i++ {
		if _, ok := t.tombstones[strings.Join(path[:i], ".")]; ok {
			return true
		}
	}
	return false
}

// Roots returns the top level nodes keyed by their names.
func (t *Tree) Roots() map[string]*Node {
	roots := make(map[string]*Node, len(t.roots))
	for k, v := range t.roots {
		roots[k] = v
	}
	return roots
}

// Walk visits every node depth-first, parents first and siblings sorted by key.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.roots, fn)
}

func walk(children map[string]*Node, fn func(n *Node) bool) {
	for _, key := range SortedKeys(children) {
		node := children[key]
		if fn(node) {
			walk(node.Children, fn)
		}
	}
}

// SortedKeys returns the keys of children in ascending order.
func SortedKeys(children map[string]*Node) []string {
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
