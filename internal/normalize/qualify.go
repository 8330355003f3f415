package normalize

import (
	"strings"

	"github.com/nieomylnieja/optdoc/internal/typeexpr"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// qualify prefixes every unqualified longname, memberof and type name
// with the namespace if the prefixed name is a known longname.
// Rewritten longnames become known, so the passes repeat until nothing
// changes and running it twice changes nothing.
func (n *Normalizer) qualify(doclets []*doclet.Doclet) {
	ns := n.opts.Namespace
	if ns == "" {
		return
	}
	known := make(map[string]struct{}, len(doclets))
	for _, d := range doclets {
		known[d.Longname] = struct{}{}
	}
	for changed := true; changed; {
		changed = qualifyPass(doclets, ns, known)
	}
}

// qualifyPass runs a single qualification sweep and reports whether any doclet changed.
func qualifyPass(doclets []*doclet.Doclet, ns string, known map[string]struct{}) bool {
	qualified := func(name string) (string, bool) {
		if name == "" || name == ns || strings.HasPrefix(name, ns+".") {
			return name, false
		}
		if _, ok := known[ns+"."+name]; ok {
			return ns + "." + name, true
		}
		return name, false
	}

	changed := false
	for _, d := range doclets {
		before := qualifiedNames(d)
		if longname, ok := qualified(d.Longname); ok {
			d.Longname = longname
			if d.Memberof == "" {
				d.Memberof = ns
			} else if !strings.HasPrefix(d.Memberof, ns+".") {
				d.Memberof = ns + "." + d.Memberof
			}
			if d.Scope == doclet.ScopeGlobal {
				d.Scope = doclet.ScopeStatic
			}
		} else if memberof, ok := qualified(d.Memberof); ok {
			d.Memberof = memberof
			if !strings.HasPrefix(d.Longname, ns+".") {
				d.Longname = ns + "." + d.Longname
			}
		}
		known[d.Longname] = struct{}{}
		rewriteTypes(d, func(name string) string {
			q, _ := qualified(name)
			return q
		})
		for i, a := range d.Augments {
			d.Augments[i], _ = qualified(a)
		}
		for i, m := range d.Mixes {
			d.Mixes[i], _ = qualified(m)
		}
		if qualifiedNames(d) != before {
			changed = true
		}
	}
	return changed
}

// qualifiedNames joins every name qualify may rewrite.
func qualifiedNames(d *doclet.Doclet) string {
	var sb strings.Builder
	write := func(names ...string) {
		for _, name := range names {
			sb.WriteString(name)
			sb.WriteByte('\x00')
		}
	}
	write(d.Longname, d.Memberof, string(d.Scope))
	writeType := func(t *doclet.TypeNames) {
		if t != nil {
			write(t.Names...)
		}
	}
	writeType(d.Type)
	for _, params := range [][]doclet.Param{d.Params, d.Returns, d.Properties} {
		for _, p := range params {
			writeType(p.Type)
		}
	}
	write(d.Augments...)
	write(d.Mixes...)
	return sb.String()
}

// rewriteTypes applies fn to every type name of d, its params, returns and properties.
func rewriteTypes(d *doclet.Doclet, fn func(name string) string) {
	rewriteNames(d.Type, fn)
	for _, params := range [][]doclet.Param{d.Params, d.Returns, d.Properties} {
		for i := range params {
			rewriteNames(params[i].Type, fn)
		}
	}
}

func rewriteNames(t *doclet.TypeNames, fn func(name string) string) {
	if t == nil {
		return
	}
	for i, name := range t.Names {
		t.Names[i] = typeexpr.Rewrite(name, fn)
	}
}
