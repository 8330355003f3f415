// Package typeexpr handles JSDoc type expressions such as
// `Array.<Highcharts.Point|number>` or `(string|null)`.
package typeexpr

import (
	"strings"
)

type tokenKind int

const (
	identToken tokenKind = iota
	// genericToken opens a type parameter list, written either `.<` or `<`.
	genericToken
	punctToken
	stringToken
)

type token struct {
	kind tokenKind
	text string
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' || c == '#' || c == '~' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func tokenize(expr string) []token {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '\'' || c == '"':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				tokens = append(tokens, token{kind: stringToken, text: expr[i:]})
				return tokens
			}
			tokens = append(tokens, token{kind: stringToken, text: expr[i : i+end+2]})
			i += end + 2
		case isIdentByte(c):
			j := i
			for j < len(expr) && isIdentByte(expr[j]) {
				j++
			}
			name := expr[i:j]
			if strings.HasSuffix(name, ".") && j < len(expr) && expr[j] == '<' {
				tokens = append(tokens,
					token{kind: identToken, text: strings.TrimSuffix(name, ".")},
					token{kind: genericToken, text: ".<"})
				i = j + 1
				continue
			}
			tokens = append(tokens, token{kind: identToken, text: name})
			i = j
		case c == '<':
			tokens = append(tokens, token{kind: genericToken, text: "<"})
			i++
		default:
			tokens = append(tokens, token{kind: punctToken, text: string(c)})
			i++
		}
	}
	return tokens
}

// isTypeName reports whether the identifier token at i names a type
// which may be rewritten: it is not a generic wrapper, a keyword call or a record key.
func isTypeName(tokens []token, i int) bool {
	t := tokens[i]
	if t.kind != identToken || t.text == "" {
		return false
	}
	if t.text[0] >= '0' && t.text[0] <= '9' {
		return false
	}
	next := nextSignificant(tokens, i)
	if next == nil {
		return true
	}
	switch {
	case next.kind == genericToken:
		return false
	case next.kind == punctToken && (next.text == "(" || next.text == ":"):
		return false
	}
	return true
}

func nextSignificant(tokens []token, i int) *token {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].kind == punctToken && strings.TrimSpace(tokens[j].text) == "" {
			continue
		}
		return &tokens[j]
	}
	return nil
}

// Rewrite applies fn to every type name inside expr.
// Generic wrappers (`Array.<...>`, `Object.<...>`) are preserved and only
// their parameters are rewritten, so `Array.<Foo|Bar>` can become
// `Array.<NS.Foo|NS.Bar>` but never `NS.Array.<Foo|Bar>`.
// Rewrite is idempotent whenever fn is.
func Rewrite(expr string, fn func(name string) string) string {
	if expr == "" {
		return expr
	}
	tokens := tokenize(expr)
	var b strings.Builder
	for i, t := range tokens {
		if isTypeName(tokens, i) {
			b.WriteString(fn(t.text))
			continue
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// Normalize rewrites type parameter syntax to the JSDoc dotted form:
// `Array<T>` becomes `Array.<T>` and `T[]` becomes `Array.<T>`.
func Normalize(expr string) string {
	tokens := tokenize(expr)
	var b strings.Builder
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.kind == genericToken:
			b.WriteString(".<")
		case t.kind == identToken && i+2 < len(tokens) &&
			tokens[i+1].text == "[" && tokens[i+2].text == "]":
			b.WriteString("Array.<" + t.text + ">")
			i += 2
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}

// Split splits the top-level union of expr into its members.
// Unions nested in type parameters, parentheses or records are kept whole,
// and parentheses wrapping the whole expression are removed.
func Split(expr string) []string {
	expr = stripParens(strings.TrimSpace(expr))
	if expr == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			depth--
		case '|':
			if depth == 0 {
				parts = appendNonEmpty(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	return appendNonEmpty(parts, expr[start:])
}

func appendNonEmpty(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func stripParens(expr string) string {
	for len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' && closingParen(expr) == len(expr)-1 {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	return expr
}

func closingParen(expr string) int {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var tsPrimitives = map[string]string{
	"String":    "string",
	"Number":    "number",
	"Boolean":   "boolean",
	"Object":    "object",
	"Symbol":    "symbol",
	"function":  "Function",
	"Undefined": "undefined",
	"Null":      "null",
	"Array":     "Array<any>",
}

// ToTS renders a JSDoc type expression as a TypeScript type.
// An empty expression or `*` renders as `any`.
func ToTS(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "*" {
		return "any"
	}
	if strings.Contains(expr, "function(") {
		return "Function"
	}
	tokens := tokenize(Normalize(expr))
	var b strings.Builder
	for i, t := range tokens {
		switch {
		case t.kind == genericToken:
			b.WriteString("<")
		case t.kind == identToken && isGenericWrapper(tokens, i):
			if t.text == "Object" {
				b.WriteString("Record")
			} else {
				b.WriteString(t.text)
			}
		case t.kind == identToken:
			if ts, ok := tsPrimitives[t.text]; ok {
				b.WriteString(ts)
			} else {
				b.WriteString(t.text)
			}
		case t.kind == punctToken && t.text == "*":
			b.WriteString("any")
		case t.kind == punctToken && t.text == ",":
			b.WriteString(", ")
		case t.kind == punctToken && (t.text == " " || t.text == "?" || t.text == "=" || t.text == "!"):
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}

func isGenericWrapper(tokens []token, i int) bool {
	next := nextSignificant(tokens, i)
	return next != nil && next.kind == genericToken
}
