package normalize

import (
	"sort"
	"strings"

	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// rename moves an authored doclet into the namespace and marks the
// doclets which must not be emitted.
func (n *Normalizer) rename(d *doclet.Doclet) {
	for _, alias := range n.aliases() {
		target := n.opts.Aliases[alias]
		d.Memberof = replacePrefix(d.Memberof, alias, target)
		d.Longname = replacePrefix(d.Longname, alias, target)
		for i, a := range d.Augments {
			d.Augments[i] = replacePrefix(a, alias, target)
		}
		rewriteTypes(d, func(name string) string { return replacePrefix(name, alias, target) })
	}
	for _, class := range n.opts.InstanceClasses {
		qualified := n.opts.Namespace + "." + class
		if d.Longname == class {
			d.Longname = qualified
			d.Memberof = n.opts.Namespace
			d.Scope = doclet.ScopeStatic
		}
		if rest, ok := cutAnyPrefix(d.Longname, class+".", class+"#"); ok {
			d.Longname = qualified + "#" + rest
			d.Scope = doclet.ScopeInstance
		}
		d.Memberof = replacePrefix(d.Memberof, class, qualified)
	}
	for _, ns := range n.opts.StaticNamespaces {
		qualified := n.opts.Namespace + "." + ns
		d.Longname = replacePrefix(d.Longname, ns, qualified)
		d.Memberof = replacePrefix(d.Memberof, ns, qualified)
	}

	switch {
	case d.Apioption, d.Optionparent:
		d.Ignored = true
	case d.Scope == doclet.ScopeGlobal && d.Memberof == "" &&
		(d.Kind == doclet.KindMember || d.Kind == doclet.KindFunction):
		d.Ignored = true
	}

	if d.Kind == doclet.KindTypedef && d.Memberof == "" && n.opts.Namespace != "" {
		d.Memberof = n.opts.Namespace
		d.Scope = doclet.ScopeStatic
		d.Longname = n.opts.Namespace + "." + d.Name
	}
}

func (n *Normalizer) aliases() []string {
	keys := make([]string, 0, len(n.opts.Aliases))
	for k := range n.opts.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// replacePrefix replaces old with new when s equals old or continues
// with a scope separator after it.
func replacePrefix(s, old, new string) string {
	if s == old {
		return new
	}
	if rest, ok := cutAnyPrefix(s, old+".", old+"#", old+"~"); ok {
		return new + s[len(old):len(s)-len(rest)] + rest
	}
	return s
}

func cutAnyPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return "", false
}
