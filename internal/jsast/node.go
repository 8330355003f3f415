// Package jsast is a small ESTree-like model of JavaScript syntax.
//
// It holds only what the option-tree scanner and the structural type inference need:
// object literals, literals, simple operators, calls, assignments and declarations.
// Everything else is kept as [Other] so that traversal can still reach nested nodes.
package jsast

// Position is a 1-based line and 0-based column, like ESTree locations.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Loc is the source span of a node or comment.
type Loc struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Comment is a source comment.
// Text is the raw comment including delimiters.
type Comment struct {
	Text string
	Loc  Loc
}

// IsDoc reports whether the comment is a JSDoc block (/** ... */).
func (c Comment) IsDoc() bool {
	return len(c.Text) >= 5 && c.Text[:3] == "/**" && c.Text[3] != '*'
}

// Node is implemented by every syntax node of this package.
type Node interface {
	Location() Loc
	Leading() []Comment
	Trailing() []Comment
	// base is unexported to keep the set of nodes closed.
	base() *nodeBase
}

type nodeBase struct {
	Loc              Loc
	LeadingComments  []Comment
	TrailingComments []Comment
}

func (n *nodeBase) Location() Loc       { return n.Loc }
func (n *nodeBase) Leading() []Comment  { return n.LeadingComments }
func (n *nodeBase) Trailing() []Comment { return n.TrailingComments }
func (n *nodeBase) base() *nodeBase     { return n }

// SetLoc sets the span of n.
func SetLoc(n Node, loc Loc) { n.base().Loc = loc }

// AddLeading attaches comments preceding n.
func AddLeading(n Node, comments ...Comment) {
	b := n.base()
	b.LeadingComments = append(b.LeadingComments, comments...)
}

// AddTrailing attaches comments which are not followed by any node inside n.
func AddTrailing(n Node, comments ...Comment) {
	b := n.base()
	b.TrailingComments = append(b.TrailingComments, comments...)
}

type (
	Program struct {
		nodeBase
		Body []Node
	}

	ExpressionStatement struct {
		nodeBase
		Expression Node
	}

	VariableDeclaration struct {
		nodeBase
		Kind         string
		Declarations []*VariableDeclarator
	}

	VariableDeclarator struct {
		nodeBase
		Name string
		Init Node
	}

	FunctionDeclaration struct {
		nodeBase
		Name   string
		Params []string
		Body   []Node
	}

	// FunctionExpression also covers arrow functions and methods.
	FunctionExpression struct {
		nodeBase
		Name   string
		Params []string
		Body   []Node
	}

	ClassDeclaration struct {
		nodeBase
		Name       string
		SuperClass string
		Body       []Node
	}

	AssignmentExpression struct {
		nodeBase
		Operator string
		Left     Node
		Right    Node
	}

	ObjectExpression struct {
		nodeBase
		Properties []*Property
	}

	Property struct {
		nodeBase
		Key    string
		KeyLoc Loc
		Value  Node
	}

	ArrayExpression struct {
		nodeBase
		Elements []Node
	}

	// Literal holds a string, float64, bool or nil Value.
	Literal struct {
		nodeBase
		Value any
		Raw   string
	}

	Identifier struct {
		nodeBase
		Name string
	}

	MemberExpression struct {
		nodeBase
		Object   Node
		Property string
		Computed bool
	}

	CallExpression struct {
		nodeBase
		Callee    Node
		Arguments []Node
	}

	UnaryExpression struct {
		nodeBase
		Operator string
		Argument Node
	}

	BinaryExpression struct {
		nodeBase
		Operator string
		Left     Node
		Right    Node
	}

	LogicalExpression struct {
		nodeBase
		Operator string
		Left     Node
		Right    Node
	}

	// Other is any syntax this model does not name.
	Other struct {
		nodeBase
		Type     string
		Children []Node
	}
)
