package jsast

import "strings"

// Visitor is called for every node in pre-order.
// Returning false skips the node's children; leave is still called.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

// Walk traverses n depth-first, parents before children and siblings in source order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v.Enter(n) {
		for _, c := range Children(n) {
			Walk(v, c)
		}
	}
	v.Leave(n)
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Body
	case *ExpressionStatement:
		return nonNil(n.Expression)
	case *VariableDeclaration:
		out := make([]Node, 0, len(n.Declarations))
		for _, d := range n.Declarations {
			out = append(out, d)
		}
		return out
	case *VariableDeclarator:
		return nonNil(n.Init)
	case *FunctionDeclaration:
		return n.Body
	case *FunctionExpression:
		return n.Body
	case *ClassDeclaration:
		return n.Body
	case *AssignmentExpression:
		return nonNil(n.Left, n.Right)
	case *ObjectExpression:
		out := make([]Node, 0, len(n.Properties))
		for _, p := range n.Properties {
			out = append(out, p)
		}
		return out
	case *Property:
		return nonNil(n.Value)
	case *ArrayExpression:
		return nonNil(n.Elements...)
	case *MemberExpression:
		return nonNil(n.Object)
	case *CallExpression:
		return nonNil(append([]Node{n.Callee}, n.Arguments...)...)
	case *UnaryExpression:
		return nonNil(n.Argument)
	case *BinaryExpression:
		return nonNil(n.Left, n.Right)
	case *LogicalExpression:
		return nonNil(n.Left, n.Right)
	case *Other:
		return n.Children
	default:
		return nil
	}
}

func nonNil(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// DottedName flattens identifiers and non-computed member expressions
// into a dotted name, e.g. `H.Chart.prototype.init`.
// It returns false for any other shape.
func DottedName(n Node) (string, bool) {
	switch n := n.(type) {
	case *Identifier:
		return n.Name, true
	case *Other:
		if n.Type == "this" {
			return "this", true
		}
	case *MemberExpression:
		if n.Computed {
			return "", false
		}
		obj, ok := DottedName(n.Object)
		if !ok {
			return "", false
		}
		return obj + "." + n.Property, true
	}
	return "", false
}

// CalleeName returns the last segment of a call's callee,
// so that both `seriesType(...)` and `H.seriesType(...)` yield "seriesType".
func CalleeName(call *CallExpression) string {
	name, ok := DottedName(call.Callee)
	if !ok {
		if m, isMember := call.Callee.(*MemberExpression); isMember {
			return m.Property
		}
		return ""
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
