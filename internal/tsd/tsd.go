// Package tsd renders normalized doclets as a TypeScript declaration file.
package tsd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/optdoc/internal/typeexpr"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// Banner identifies the declaration file.
type Banner struct {
	Name    string
	Version string
	URL     string
}

const indentUnit = "    "

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

type entry struct {
	doclet   *doclet.Doclet
	children []*entry
}

// Render returns the declaration file of doclets.
func Render(banner Banner, doclets []*doclet.Doclet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Emit(&buf, banner, doclets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Emit writes the declaration file of doclets to w.
// Undocumented doclets and global functions are skipped.
// Doclets are nested along their memberof chain, in the given order.
func Emit(w io.Writer, banner Banner, doclets []*doclet.Doclet) error {
	e := &emitter{}
	e.writeBanner(banner)
	for _, root := range buildEntries(doclets) {
		e.writeEntry(root, 0, true)
	}
	if _, err := w.Write(e.buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write declarations")
	}
	return nil
}

func buildEntries(doclets []*doclet.Doclet) []*entry {
	entries := make(map[string]*entry, len(doclets))
	ordered := make([]*entry, 0, len(doclets))
	for _, d := range doclets {
		if d.Undocumented || (d.Kind == doclet.KindFunction && d.Scope == doclet.ScopeGlobal) {
			continue
		}
		e := &entry{doclet: d}
		entries[d.Longname] = e
		ordered = append(ordered, e)
	}
	var roots []*entry
	for _, e := range ordered {
		parent, ok := entries[e.doclet.Memberof]
		if e.doclet.Memberof == "" || !ok {
			roots = append(roots, e)
			continue
		}
		parent.children = append(parent.children, e)
	}
	return roots
}

type emitter struct {
	buf bytes.Buffer
}

func (e *emitter) writeBanner(b Banner) {
	e.buf.WriteString("\n")
	fmt.Fprintf(&e.buf, "// Type definitions for %s %s\n", b.Name, b.Version)
	if b.URL != "" {
		fmt.Fprintf(&e.buf, "// Project: %s\n", b.URL)
	}
	e.buf.WriteString("// Definitions by: optdoc\n")
	if b.URL != "" {
		fmt.Fprintf(&e.buf, "// Definitions: %s\n", b.URL)
	}
	e.buf.WriteString("\n")
}

func (e *emitter) line(depth int, format string, args ...any) {
	e.buf.WriteString(strings.Repeat(indentUnit, depth))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteString("\n")
}

func (e *emitter) writeComment(d *doclet.Doclet, depth int) {
	var lines []string
	if desc := strings.TrimSpace(d.Description); desc != "" {
		lines = append(lines, strings.Split(desc, "\n")...)
	}
	var tags []string
	if d.Since != "" {
		tags = append(tags, "@since "+d.Since)
	}
	if d.Deprecated != "" {
		if d.Deprecated == "true" {
			tags = append(tags, "@deprecated")
		} else {
			tags = append(tags, "@deprecated "+d.Deprecated)
		}
	}
	if len(lines) > 0 && len(tags) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, tags...)
	if len(lines) == 0 {
		return
	}
	e.line(depth, "/**")
	for _, l := range lines {
		l = strings.ReplaceAll(strings.TrimRight(l, " \t"), "*/", "*\\/")
		if l == "" {
			e.line(depth, " *")
		} else {
			e.line(depth, " * %s", l)
		}
	}
	e.line(depth, " */")
}

func (e *emitter) writeEntry(en *entry, depth int, topLevel bool) {
	d := en.doclet
	declare := ""
	if topLevel {
		declare = "declare "
	}
	switch d.Kind {
	case doclet.KindNamespace:
		e.writeComment(d, depth)
		e.line(depth, "%snamespace %s {", declare, d.Name)
		for _, child := range en.children {
			e.writeEntry(child, depth+1, false)
		}
		e.line(depth, "}")
	case doclet.KindInterface, doclet.KindMixin:
		e.writeComment(d, depth)
		e.line(depth, "interface %s%s {", d.Name, extends(d.Augments))
		e.writeMembers(en, depth+1, false)
		e.line(depth, "}")
		e.writeNested(en, depth, declare)
	case doclet.KindClass:
		e.writeComment(d, depth)
		e.line(depth, "%sclass %s%s {", declare, d.Name, extends(d.Augments))
		if len(d.Params) > 0 {
			e.line(depth+1, "constructor(%s);", params(d.Params))
		}
		e.writeMembers(en, depth+1, true)
		e.line(depth, "}")
		e.writeNested(en, depth, declare)
	case doclet.KindTypedef:
		e.writeComment(d, depth)
		e.writeTypedef(d, depth)
	case doclet.KindFunction:
		e.writeComment(d, depth)
		e.line(depth, "%sfunction %s(%s): %s;", declare, d.Name, params(d.Params), returns(d))
	case doclet.KindMember:
		e.writeComment(d, depth)
		keyword := "let"
		if d.Readonly {
			keyword = "const"
		}
		e.line(depth, "%s%s %s: %s;", declare, keyword, d.Name, typeOf(d.Type))
	}
}

// writeMembers writes the members and methods of an interface or a class.
func (e *emitter) writeMembers(en *entry, depth int, class bool) {
	for _, child := range en.children {
		d := child.doclet
		if d.Kind != doclet.KindMember && d.Kind != doclet.KindFunction {
			continue
		}
		modifiers := ""
		if class && d.Scope == doclet.ScopeStatic {
			modifiers += "static "
		}
		if d.Readonly {
			modifiers += "readonly "
		}
		e.writeComment(d, depth)
		if d.Kind == doclet.KindFunction {
			e.line(depth, "%s%s(%s): %s;", modifiers, propertyName(d.Name), params(d.Params), returns(d))
			continue
		}
		optional := ""
		if d.Optional {
			optional = "?"
		}
		e.line(depth, "%s%s%s: %s;", modifiers, propertyName(d.Name), optional, typeOf(d.Type))
	}
}

// writeNested writes the declarations which are children of an interface or
// a class but not its members, into a namespace of the same name.
func (e *emitter) writeNested(en *entry, depth int, declare string) {
	var nested []*entry
	for _, child := range en.children {
		if child.doclet.Kind != doclet.KindMember && child.doclet.Kind != doclet.KindFunction {
			nested = append(nested, child)
		}
	}
	if len(nested) == 0 {
		return
	}
	e.line(depth, "%snamespace %s {", declare, en.doclet.Name)
	for _, child := range nested {
		e.writeEntry(child, depth+1, false)
	}
	e.line(depth, "}")
}

func (e *emitter) writeTypedef(d *doclet.Doclet, depth int) {
	if len(d.Properties) > 0 {
		e.line(depth, "interface %s {", d.Name)
		for _, p := range d.Properties {
			if strings.Contains(p.Name, ".") {
				continue
			}
			optional := ""
			if p.Optional {
				optional = "?"
			}
			e.line(depth+1, "%s%s: %s;", propertyName(p.Name), optional, typeOf(p.Type))
		}
		e.line(depth, "}")
		return
	}
	if d.HasType() && len(d.Type.Names) == 1 && strings.EqualFold(d.Type.Names[0], "function") {
		e.line(depth, "type %s = (%s) => %s;", d.Name, params(d.Params), returns(d))
		return
	}
	e.line(depth, "type %s = %s;", d.Name, typeOf(d.Type))
}

func extends(augments []string) string {
	if len(augments) == 0 {
		return ""
	}
	return " extends " + strings.Join(augments, ", ")
}

func params(ps []doclet.Param) string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "" || strings.Contains(p.Name, ".") {
			continue
		}
		optional := ""
		if p.Optional {
			optional = "?"
		}
		out = append(out, p.Name+optional+": "+typeOf(p.Type))
	}
	return strings.Join(out, ", ")
}

func returns(d *doclet.Doclet) string {
	if len(d.Returns) == 0 {
		return "void"
	}
	return typeOf(d.Returns[0].Type)
}

// typeOf renders a type union, a missing type renders as any.
func typeOf(t *doclet.TypeNames) string {
	if t == nil || len(t.Names) == 0 {
		return "any"
	}
	seen := make(map[string]struct{}, len(t.Names))
	out := make([]string, 0, len(t.Names))
	for _, name := range t.Names {
		for _, part := range typeexpr.Split(name) {
			ts := typeexpr.ToTS(part)
			if _, ok := seen[ts]; ok {
				continue
			}
			seen[ts] = struct{}{}
			out = append(out, ts)
		}
	}
	if len(out) == 0 {
		return "any"
	}
	return strings.Join(out, "|")
}

func propertyName(name string) string {
	if identifierRegexp.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}
