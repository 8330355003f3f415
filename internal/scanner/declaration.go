package scanner

import (
	"github.com/nieomylnieja/optdoc/internal/jsast"
)

// Conventions names the calls which declare options.
type Conventions struct {
	// Factory functions declare a series type: `seriesType(name, parent, options, ...)`.
	Factory []string `yaml:"factory"`
	// Defaults functions merge options into the defaults: `setOptions(options)`.
	Defaults []string `yaml:"defaults"`
}

// DefaultConventions returns the calling conventions of Highcharts.
func DefaultConventions() Conventions {
	return Conventions{
		Factory:  []string{"seriesType"},
		Defaults: []string{"setOptions"},
	}
}

const (
	factoryOptionsArg  = 2
	defaultsOptionsArg = 0
)

// declaration is a node documented with @optionparent, resolved to one of
// the shapes which can carry options.
type declaration interface {
	options() *jsast.ObjectExpression
}

// plainObject is an object literal, possibly assigned to a variable or property.
type plainObject struct {
	object *jsast.ObjectExpression
}

func (p plainObject) options() *jsast.ObjectExpression { return p.object }

// factoryCall is a series type factory call.
type factoryCall struct {
	call   *jsast.CallExpression
	name   string
	parent string
	object *jsast.ObjectExpression
}

func (f factoryCall) options() *jsast.ObjectExpression { return f.object }

// defaultsMergeCall merges options into the global defaults.
type defaultsMergeCall struct {
	call   *jsast.CallExpression
	object *jsast.ObjectExpression
}

func (d defaultsMergeCall) options() *jsast.ObjectExpression { return d.object }

// resolveDeclaration matches code against the known declaration shapes.
func (c Conventions) resolveDeclaration(code jsast.Node) (declaration, bool) {
	switch n := code.(type) {
	case *jsast.ObjectExpression:
		return plainObject{object: n}, true
	case *jsast.VariableDeclaration:
		if len(n.Declarations) == 0 {
			return nil, false
		}
		return c.resolveDeclaration(n.Declarations[0])
	case *jsast.VariableDeclarator:
		return c.resolveDeclaration(n.Init)
	case *jsast.Property:
		return c.resolveDeclaration(n.Value)
	case *jsast.ExpressionStatement:
		return c.resolveDeclaration(n.Expression)
	case *jsast.AssignmentExpression:
		if n.Operator != "=" {
			return nil, false
		}
		return c.resolveDeclaration(n.Right)
	case *jsast.Other:
		if n.Type == "export_statement" && len(n.Children) == 1 {
			return c.resolveDeclaration(n.Children[0])
		}
	case *jsast.CallExpression:
		callee := jsast.CalleeName(n)
		switch {
		case contains(c.Factory, callee):
			obj, ok := argument(n, factoryOptionsArg)
			if !ok {
				return nil, false
			}
			return factoryCall{
				call:   n,
				name:   stringArgument(n, 0),
				parent: stringArgument(n, 1),
				object: obj,
			}, true
		case contains(c.Defaults, callee):
			obj, ok := argument(n, defaultsOptionsArg)
			if !ok {
				return nil, false
			}
			return defaultsMergeCall{call: n, object: obj}, true
		}
	}
	return nil, false
}

func argument(call *jsast.CallExpression, i int) (*jsast.ObjectExpression, bool) {
	if i >= len(call.Arguments) {
		return nil, false
	}
	obj, ok := call.Arguments[i].(*jsast.ObjectExpression)
	return obj, ok
}

func stringArgument(call *jsast.CallExpression, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	if lit, ok := call.Arguments[i].(*jsast.Literal); ok {
		if s, isStr := lit.Value.(string); isStr {
			return s
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
