package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nieomylnieja/optdoc/internal/jsast"
)

func TestInferNodeType(t *testing.T) {
	num := &jsast.Literal{Value: 5.0}
	str := &jsast.Literal{Value: "a"}
	ident := &jsast.Identifier{Name: "x"}
	tests := map[string]struct {
		node     jsast.Node
		expected string
	}{
		"numeric property": {&jsast.Property{Key: "foo", Value: num}, "Object"},
		"object":           {&jsast.ObjectExpression{}, "Object"},
		"function":         {&jsast.FunctionExpression{}, "Function"},
		"assignment":       {&jsast.AssignmentExpression{Operator: "=", Left: ident, Right: num}, "Number"},
		"logical":          {&jsast.LogicalExpression{Operator: "||", Left: ident, Right: num}, "Boolean"},
		"concatenation":    {&jsast.BinaryExpression{Operator: "+", Left: num, Right: str}, "String"},
		"subtraction":      {&jsast.BinaryExpression{Operator: "-", Left: ident, Right: num}, "Number"},
		"unknown addition": {&jsast.BinaryExpression{Operator: "+", Left: ident, Right: ident}, "*"},
		"negation":         {&jsast.UnaryExpression{Operator: "!", Argument: ident}, "Boolean"},
		"typeof":           {&jsast.UnaryExpression{Operator: "typeof", Argument: ident}, "String"},
		"array":            {&jsast.ArrayExpression{Elements: []jsast.Node{str}}, "Array.<String>"},
		"empty array":      {&jsast.ArrayExpression{}, "Array.<*>"},
		"null":             {&jsast.Literal{Value: nil}, "null"},
		"undefined":        {&jsast.Identifier{Name: "undefined"}, "undefined"},
		"identifier":       {ident, "*"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InferNodeType(tc.node))
		})
	}
}
