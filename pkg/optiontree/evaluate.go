package optiontree

import (
	"math"
	"strconv"
	"strings"

	"github.com/nieomylnieja/optdoc/internal/jsast"
)

// Evaluate statically computes the value of an initializer expression.
//
// Supported are string, number, boolean and null literals, unary `-` and `+`
// on numbers, `!` on booleans, arrays of literals (rendered as "[a,b]")
// and `+`/`-` chains of those. A `+` with a string operand concatenates,
// a `-` coerces numeric strings.
// Anything depending on an identifier or any other shape has no static
// value, which is reported with ok set to false.
func Evaluate(n jsast.Node) (v any, ok bool) {
	switch n := n.(type) {
	case *jsast.Literal:
		return n.Value, true
	case *jsast.UnaryExpression:
		return evaluateUnary(n)
	case *jsast.ArrayExpression:
		return evaluateArray(n)
	case *jsast.BinaryExpression:
		return evaluateBinary(n)
	default:
		return nil, false
	}
}

func evaluateUnary(n *jsast.UnaryExpression) (any, bool) {
	arg, ok := Evaluate(n.Argument)
	if !ok {
		return nil, false
	}
	switch n.Operator {
	case "-":
		if f, isNum := arg.(float64); isNum {
			return -f, true
		}
	case "+":
		if f, isNum := arg.(float64); isNum {
			return f, true
		}
	case "!":
		if b, isBool := arg.(bool); isBool {
			return !b, true
		}
	}
	return nil, false
}

func evaluateArray(n *jsast.ArrayExpression) (any, bool) {
	elements := make([]string, 0, len(n.Elements))
	for _, e := range n.Elements {
		lit, isLit := e.(*jsast.Literal)
		if !isLit {
			return nil, false
		}
		elements = append(elements, FormatValue(lit.Value))
	}
	return "[" + strings.Join(elements, ",") + "]", true
}

func evaluateBinary(n *jsast.BinaryExpression) (any, bool) {
	left, ok := Evaluate(n.Left)
	if !ok {
		return nil, false
	}
	right, ok := Evaluate(n.Right)
	if !ok {
		return nil, false
	}
	lf, lNum := left.(float64)
	rf, rNum := right.(float64)
	_, lStr := left.(string)
	_, rStr := right.(string)
	switch n.Operator {
	case "+":
		switch {
		case lStr || rStr:
			return FormatValue(left) + FormatValue(right), true
		case lNum && rNum:
			return lf + rf, true
		}
	case "-":
		l, lOK := toNumber(left)
		r, rOK := toNumber(right)
		if lOK && rOK {
			return l - r, true
		}
	}
	return nil, false
}

// toNumber coerces numbers and numeric strings for arithmetic operators.
func toNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case string:
		if !isNumeric(v) {
			return 0, false
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, true
	}
	return 0, false
}

// FormatValue renders a default value the way it reads in JavaScript.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// isNumeric reports whether s parses as a finite number.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}
