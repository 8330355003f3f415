package normalize

import (
	"github.com/nieomylnieja/optdoc/internal/jsast"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

const unknownType = "*"

// inferMemberType types an untyped member by the shape of its code.
func inferMemberType(d *doclet.Doclet) {
	if d.Kind != doclet.KindMember || d.HasType() {
		return
	}
	if d.Meta == nil || d.Meta.Code == nil {
		d.Type = doclet.NewType(unknownType)
		return
	}
	d.Type = doclet.NewType(InferNodeType(d.Meta.Code))
}

// InferNodeType returns the JSDoc type name of the value produced by code.
func InferNodeType(code jsast.Node) string {
	switch n := code.(type) {
	case *jsast.ExpressionStatement:
		return InferNodeType(n.Expression)
	case *jsast.VariableDeclaration:
		if len(n.Declarations) == 0 {
			return unknownType
		}
		return InferNodeType(n.Declarations[0])
	case *jsast.VariableDeclarator:
		if n.Init == nil {
			return unknownType
		}
		return InferNodeType(n.Init)
	case *jsast.AssignmentExpression:
		return InferNodeType(n.Right)
	// Properties are Object regardless of their value, `foo: 5` included.
	case *jsast.Property, *jsast.ObjectExpression:
		return "Object"
	case *jsast.FunctionExpression, *jsast.FunctionDeclaration:
		return "Function"
	case *jsast.LogicalExpression:
		return "Boolean"
	case *jsast.BinaryExpression:
		return inferBinaryType(n)
	case *jsast.UnaryExpression:
		switch n.Operator {
		case "-", "+", "~":
			return "Number"
		case "!":
			return "Boolean"
		case "typeof":
			return "String"
		}
		return unknownType
	case *jsast.ArrayExpression:
		if len(n.Elements) == 0 || n.Elements[0] == nil {
			return "Array.<*>"
		}
		return "Array.<" + InferNodeType(n.Elements[0]) + ">"
	case *jsast.Literal:
		return literalType(n)
	case *jsast.Identifier:
		if n.Name == "undefined" {
			return "undefined"
		}
	}
	return unknownType
}

func literalType(n *jsast.Literal) string {
	switch n.Value.(type) {
	case string:
		return "String"
	case float64:
		return "Number"
	case bool:
		return "Boolean"
	case nil:
		return "null"
	}
	return unknownType
}

// inferBinaryType follows the static evaluator: only `+` may produce
// a string, every other operator yields a number.
func inferBinaryType(n *jsast.BinaryExpression) string {
	if n.Operator != "+" {
		return "Number"
	}
	left, right := operandType(n.Left), operandType(n.Right)
	switch {
	case left == "String" || right == "String":
		return "String"
	case left == unknownType && right == unknownType:
		return unknownType
	case left == unknownType:
		return right
	case right == unknownType:
		return left
	}
	return "Number"
}

func operandType(n jsast.Node) string {
	switch n := n.(type) {
	case *jsast.Literal:
		return literalType(n)
	case *jsast.BinaryExpression:
		return inferBinaryType(n)
	}
	return unknownType
}
