package normalize

import (
	"path/filepath"
	"strings"

	"github.com/nieomylnieja/optdoc/internal/typeexpr"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

// synthesize converts every option node into a member doclet of its
// parent interface and, for object nodes, an interface doclet describing it.
func (n *Normalizer) synthesize(tree *optiontree.Tree) []*doclet.Doclet {
	var out []*doclet.Doclet
	roots := tree.Roots()
	for _, key := range optiontree.SortedKeys(roots) {
		out = n.synthesizeNode(out, key, roots[key], "", 0)
	}
	return out
}

func (n *Normalizer) synthesizeNode(
	out []*doclet.Doclet,
	key string,
	node *optiontree.Node,
	parentType string,
	level int,
) []*doclet.Doclet {
	src := node.Doclet
	if src == nil {
		src = &doclet.Doclet{}
	}
	owner := parentType
	if owner == "" {
		owner = n.opts.RootType
	}
	member := &doclet.Doclet{
		Name:        key,
		Memberof:    n.qualifiedName(owner),
		Kind:        doclet.KindMember,
		Scope:       doclet.ScopeStatic,
		Description: src.Description,
		Since:       src.Since,
		Deprecated:  src.Deprecated,
		Products:    append([]string(nil), src.Products...),
		Samples:     append([]doclet.Sample(nil), src.Samples...),
		Optional:    true,
		Meta:        nodeMeta(node),
	}
	member.Longname = member.Memberof + "." + key
	if member.Description == "" {
		member.Description = "Auto-gen doc for " + member.Longname
	}
	if src.HasType() {
		member.Type = doclet.NewType(append([]string(nil), src.Type.Names...)...)
	}
	switch {
	case src.Defaultvalue != nil:
		member.Defaultvalue = src.Defaultvalue
	case node.Meta.HasDefault:
		member.Defaultvalue = node.Meta.Default
	}
	out = append(out, member)

	if len(node.Children) == 0 && len(src.Augments) == 0 {
		return out
	}
	name := interfaceName(key, parentType, level)
	iface := src.Clone()
	iface.Name = name
	iface.Longname = n.qualifiedName(name)
	iface.Memberof = n.opts.Namespace
	iface.Kind = doclet.KindInterface
	iface.Scope = doclet.ScopeStatic
	iface.Type = nil
	iface.Defaultvalue = nil
	iface.Access = ""
	iface.Undocumented = false
	iface.Meta = nodeMeta(node)
	iface.Augments = iface.Augments[:0]
	for _, a := range src.Augments {
		for _, path := range strings.Split(a, ",") {
			if path = strings.TrimSpace(path); path != "" {
				iface.Augments = append(iface.Augments, optionPathTypeName(path))
			}
		}
	}
	if len(iface.Augments) == 0 {
		iface.Augments = nil
	}
	out = append(out, iface)

	if member.HasType() && strings.HasPrefix(typeexpr.Normalize(member.Type.Names[0]), "Array") {
		member.Type = doclet.NewType("Array.<" + name + ">")
	} else {
		member.Type = doclet.NewType(name)
	}

	for _, childKey := range optiontree.SortedKeys(node.Children) {
		out = n.synthesizeNode(out, childKey, node.Children[childKey], name, level+1)
	}
	return out
}

// synthesizeNamespace adds the namespace and the root interface doclets unless they were authored.
func (n *Normalizer) synthesizeNamespace(doclets []*doclet.Doclet) []*doclet.Doclet {
	if n.opts.Namespace == "" {
		return doclets
	}
	var hasNamespace, hasRoot bool
	root := n.qualifiedName(n.opts.RootType)
	for _, d := range doclets {
		switch d.Longname {
		case n.opts.Namespace:
			hasNamespace = true
		case root:
			hasRoot = true
		}
	}
	if !hasNamespace {
		doclets = append(doclets, &doclet.Doclet{
			Name:        n.opts.Namespace,
			Longname:    n.opts.Namespace,
			Kind:        doclet.KindNamespace,
			Scope:       doclet.ScopeGlobal,
			Description: "Auto-gen doc for " + n.opts.Namespace,
		})
	}
	if !hasRoot && n.opts.RootType != "" {
		doclets = append(doclets, &doclet.Doclet{
			Name:        n.opts.RootType,
			Longname:    root,
			Memberof:    n.opts.Namespace,
			Kind:        doclet.KindInterface,
			Scope:       doclet.ScopeStatic,
			Description: "Auto-gen doc for " + root,
		})
	}
	return doclets
}

func (n *Normalizer) qualifiedName(name string) string {
	if n.opts.Namespace == "" {
		return name
	}
	return n.opts.Namespace + "." + name
}

// interfaceName derives the interface name of an option node:
// top-level keys get an "Options" suffix, nested keys are prefixed with the parent interface.
func interfaceName(key, parentType string, level int) string {
	name := upperFirst(key)
	if level == 0 && !strings.HasSuffix(name, "Options") {
		name += "Options"
	}
	return parentType + name
}

// optionPathTypeName converts a dotted option path into the name of its interface,
// e.g. "plotOptions.series" becomes "PlotOptionsSeries".
func optionPathTypeName(path string) string {
	segments := optiontree.SplitPath(path)
	var sb strings.Builder
	for i, segment := range segments {
		sb.WriteString(interfaceName(segment, "", i))
	}
	return sb.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func nodeMeta(node *optiontree.Node) *doclet.Meta {
	if node.Meta.Filename == "" {
		return nil
	}
	return &doclet.Meta{
		Filename: filepath.Base(node.Meta.Filename),
		Path:     filepath.Dir(node.Meta.Filename),
		Lineno:   node.Meta.Line,
		LineEnd:  node.Meta.LineEnd,
		Column:   node.Meta.Column,
	}
}
