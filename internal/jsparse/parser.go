// Package jsparse converts JavaScript and TypeScript sources into [jsast] trees using tree-sitter.
//
// Comments are attached the way documentation tools expect them: a run of comments
// preceding a node inside the same list (statements, object properties, call arguments)
// becomes that node's leading comments, comments not followed by any node become
// trailing comments of the enclosing node.
package jsparse

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/nieomylnieja/optdoc/internal/jsast"
)

// File is a parsed source file.
type File struct {
	Path    string
	Program *jsast.Program
	// SyntaxErrors counts ERROR and MISSING nodes recovered by tree-sitter.
	SyntaxErrors int
}

// Extensions lists the file extensions [Parse] understands.
var Extensions = []string{".js", ".mjs", ".cjs", ".ts", ".mts", ".cts"}

// Supported reports whether path has one of the [Extensions].
func Supported(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func languageFor(path string) *sitter.Language {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse parses content as the language implied by path's extension.
func Parse(ctx context.Context, path string, content []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	defer tree.Close()

	c := &converter{src: content}
	root := tree.RootNode()
	prog := &jsast.Program{}
	jsast.SetLoc(prog, loc(root))
	body, trailing := c.list(root)
	prog.Body = body
	jsast.AddTrailing(prog, trailing...)
	return &File{
		Path:         path,
		Program:      prog,
		SyntaxErrors: c.errors,
	}, nil
}

type converter struct {
	src    []byte
	errors int
}

func loc(n *sitter.Node) jsast.Loc {
	start, end := n.StartPoint(), n.EndPoint()
	return jsast.Loc{
		Start: jsast.Position{Line: int(start.Row) + 1, Column: int(start.Column)},
		End:   jsast.Position{Line: int(end.Row) + 1, Column: int(end.Column)},
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) comment(n *sitter.Node) jsast.Comment {
	return jsast.Comment{Text: c.text(n), Loc: loc(n)}
}

// list converts the named children of n, attaching comments to the node that follows them.
func (c *converter) list(n *sitter.Node) (nodes []jsast.Node, trailing []jsast.Comment) {
	var pending []jsast.Comment
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			pending = append(pending, c.comment(child))
			continue
		}
		converted := c.convert(child)
		if converted == nil {
			continue
		}
		if len(pending) > 0 {
			jsast.AddLeading(converted, pending...)
			pending = nil
		}
		nodes = append(nodes, converted)
	}
	return nodes, pending
}

// attachInner moves comments found directly inside n (e.g. between `=` and the value)
// onto target.
func (c *converter) attachInner(n *sitter.Node, target jsast.Node) {
	if target == nil {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			jsast.AddLeading(target, c.comment(child))
		}
	}
}

func (c *converter) field(n *sitter.Node, name string) jsast.Node {
	child := n.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return c.convert(child)
}

func (c *converter) convert(n *sitter.Node) jsast.Node {
	if n == nil {
		return nil
	}
	if n.IsMissing() {
		c.errors++
		return nil
	}
	var out jsast.Node
	switch n.Type() {
	case "expression_statement":
		stmt := &jsast.ExpressionStatement{}
		nodes, _ := c.list(n)
		if len(nodes) > 0 {
			stmt.Expression = nodes[0]
		}
		out = stmt
	case "variable_declaration", "lexical_declaration":
		decl := &jsast.VariableDeclaration{Kind: "var"}
		if kind := n.ChildByFieldName("kind"); kind != nil {
			decl.Kind = c.text(kind)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			if d, ok := c.convert(child).(*jsast.VariableDeclarator); ok {
				decl.Declarations = append(decl.Declarations, d)
			}
		}
		out = decl
	case "variable_declarator":
		d := &jsast.VariableDeclarator{Init: c.field(n, "value")}
		if name := n.ChildByFieldName("name"); name != nil {
			d.Name = c.text(name)
		}
		c.attachInner(n, d.Init)
		out = d
	case "function_declaration", "generator_function_declaration":
		fn := &jsast.FunctionDeclaration{}
		if name := n.ChildByFieldName("name"); name != nil {
			fn.Name = c.text(name)
		}
		fn.Params = c.params(n)
		fn.Body = c.body(n)
		out = fn
	case "function", "function_expression", "generator_function", "arrow_function", "method_definition":
		fn := &jsast.FunctionExpression{}
		if name := n.ChildByFieldName("name"); name != nil {
			fn.Name = c.text(name)
		}
		fn.Params = c.params(n)
		fn.Body = c.body(n)
		out = fn
	case "class_declaration", "class":
		cls := &jsast.ClassDeclaration{}
		if name := n.ChildByFieldName("name"); name != nil {
			cls.Name = c.text(name)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if h := n.NamedChild(i); h.Type() == "class_heritage" {
				cls.SuperClass = strings.TrimSpace(strings.TrimPrefix(c.text(h), "extends"))
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			var trailing []jsast.Comment
			cls.Body, trailing = c.list(body)
			jsast.AddTrailing(cls, trailing...)
		}
		out = cls
	case "assignment_expression", "augmented_assignment_expression":
		a := &jsast.AssignmentExpression{
			Operator: "=",
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}
		if op := n.ChildByFieldName("operator"); op != nil {
			a.Operator = op.Type()
		}
		c.attachInner(n, a.Right)
		out = a
	case "object", "object_pattern":
		obj := &jsast.ObjectExpression{}
		var pending []jsast.Comment
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "comment" {
				pending = append(pending, c.comment(child))
				continue
			}
			prop := c.property(child)
			if prop == nil {
				continue
			}
			jsast.AddLeading(prop, pending...)
			pending = nil
			obj.Properties = append(obj.Properties, prop)
		}
		jsast.AddTrailing(obj, pending...)
		out = obj
	case "array":
		arr := &jsast.ArrayExpression{}
		var trailing []jsast.Comment
		arr.Elements, trailing = c.list(n)
		jsast.AddTrailing(arr, trailing...)
		out = arr
	case "string":
		raw := c.text(n)
		out = &jsast.Literal{Value: unquote(raw), Raw: raw}
	case "number":
		raw := c.text(n)
		out = &jsast.Literal{Value: parseNumber(raw), Raw: raw}
	case "true", "false":
		out = &jsast.Literal{Value: n.Type() == "true", Raw: n.Type()}
	case "null":
		out = &jsast.Literal{Value: nil, Raw: "null"}
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "undefined":
		out = &jsast.Identifier{Name: c.text(n)}
	case "member_expression":
		m := &jsast.MemberExpression{Object: c.field(n, "object")}
		if prop := n.ChildByFieldName("property"); prop != nil {
			m.Property = c.text(prop)
		}
		out = m
	case "subscript_expression":
		m := &jsast.MemberExpression{Object: c.field(n, "object"), Computed: true}
		if idx := n.ChildByFieldName("index"); idx != nil {
			m.Property = c.text(idx)
		}
		out = m
	case "call_expression":
		call := &jsast.CallExpression{Callee: c.field(n, "function")}
		if args := n.ChildByFieldName("arguments"); args != nil {
			var trailing []jsast.Comment
			call.Arguments, trailing = c.list(args)
			jsast.AddTrailing(call, trailing...)
		}
		out = call
	case "unary_expression":
		u := &jsast.UnaryExpression{Argument: c.field(n, "argument")}
		if op := n.ChildByFieldName("operator"); op != nil {
			u.Operator = op.Type()
		}
		out = u
	case "binary_expression":
		var op string
		if o := n.ChildByFieldName("operator"); o != nil {
			op = o.Type()
		}
		left, right := c.field(n, "left"), c.field(n, "right")
		switch op {
		case "&&", "||", "??":
			out = &jsast.LogicalExpression{Operator: op, Left: left, Right: right}
		default:
			out = &jsast.BinaryExpression{Operator: op, Left: left, Right: right}
		}
	case "parenthesized_expression":
		nodes, _ := c.list(n)
		if len(nodes) == 1 {
			return nodes[0]
		}
		out = &jsast.Other{Type: n.Type(), Children: nodes}
	default:
		if n.Type() == "ERROR" {
			c.errors++
		}
		nodes, trailing := c.list(n)
		other := &jsast.Other{Type: n.Type(), Children: nodes}
		jsast.AddTrailing(other, trailing...)
		out = other
	}
	jsast.SetLoc(out, loc(n))
	return out
}

func (c *converter) property(n *sitter.Node) *jsast.Property {
	prop := &jsast.Property{}
	switch n.Type() {
	case "pair", "pair_pattern":
		key := n.ChildByFieldName("key")
		if key == nil {
			return nil
		}
		prop.Key = propertyKey(c.text(key), key.Type())
		prop.KeyLoc = loc(key)
		prop.Value = c.field(n, "value")
		c.attachInner(n, prop.Value)
	case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		prop.Key = c.text(n)
		prop.KeyLoc = loc(n)
		prop.Value = &jsast.Identifier{Name: prop.Key}
		jsast.SetLoc(prop.Value, loc(n))
	case "method_definition":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		prop.Key = propertyKey(c.text(name), name.Type())
		prop.KeyLoc = loc(name)
		prop.Value = c.convert(n)
	default:
		return nil
	}
	jsast.SetLoc(prop, loc(n))
	return prop
}

func propertyKey(raw, typ string) string {
	switch typ {
	case "string":
		return unquote(raw)
	case "computed_property_name":
		return strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	default:
		return raw
	}
}

func (c *converter) params(n *sitter.Node) []string {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		if single := n.ChildByFieldName("parameter"); single != nil {
			return []string{c.text(single)}
		}
		return nil
	}
	var out []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		if pattern := p.ChildByFieldName("pattern"); pattern != nil {
			p = pattern
		}
		out = append(out, c.text(p))
	}
	return out
}

func (c *converter) body(n *sitter.Node) []jsast.Node {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Type() != "statement_block" {
		if expr := c.convert(body); expr != nil {
			return []jsast.Node{expr}
		}
		return nil
	}
	nodes, trailing := c.list(body)
	if len(trailing) > 0 {
		// Free-floating comments at the end of a body are kept on a placeholder
		// so that they are still visited.
		holder := &jsast.Other{Type: "statement_block"}
		jsast.SetLoc(holder, loc(body))
		jsast.AddTrailing(holder, trailing...)
		nodes = append(nodes, holder)
	}
	return nodes
}

func parseNumber(raw string) any {
	clean := strings.ReplaceAll(raw, "_", "")
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return f
	}
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return float64(i)
	}
	return raw
}

// unquote decodes a single or double quoted JavaScript string literal.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if (quote != '\'' && quote != '"') || raw[len(raw)-1] != quote {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i == len(body)-1 {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'u':
			if i+4 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		case '\n':
			// Line continuation.
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
