package scanner

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/jsast"
	"github.com/nieomylnieja/optdoc/internal/jsdoc"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

func scopeName(n jsast.Node) (string, bool) {
	switch n := n.(type) {
	case *jsast.ClassDeclaration:
		return n.Name, true
	case *jsast.FunctionDeclaration:
		return n.Name, true
	case *jsast.FunctionExpression:
		return n.Name, true
	}
	return "", false
}

// recordOwners remembers which symbol the members of n belong to.
func (v *visitor) recordOwners(n jsast.Node) {
	switch n := n.(type) {
	case *jsast.AssignmentExpression:
		obj, ok := n.Right.(*jsast.ObjectExpression)
		if !ok {
			return
		}
		if name, isDotted := jsast.DottedName(n.Left); isDotted && !strings.HasPrefix(name, "this.") {
			v.setObjectOwner(obj, ownerOf(name))
		}
	case *jsast.VariableDeclarator:
		if obj, ok := n.Init.(*jsast.ObjectExpression); ok {
			v.setObjectOwner(obj, owner{memberof: n.Name, scope: doclet.ScopeStatic})
		}
	case *jsast.Property:
		parent, ok := v.owners[n]
		if !ok {
			return
		}
		if obj, isObj := n.Value.(*jsast.ObjectExpression); isObj {
			v.setObjectOwner(obj, owner{memberof: parent.memberof + "." + n.Key, scope: doclet.ScopeStatic})
		}
	case *jsast.ClassDeclaration:
		for _, member := range n.Body {
			v.owners[member] = owner{memberof: n.Name, scope: doclet.ScopeInstance}
		}
	}
}

func (v *visitor) setObjectOwner(obj *jsast.ObjectExpression, o owner) {
	for _, prop := range obj.Properties {
		v.owners[prop] = o
	}
}

// ownerOf maps an assignment target to the owner of its members:
// `H.Chart.prototype` owns instance members of H.Chart.
func ownerOf(name string) owner {
	if base, ok := strings.CutSuffix(name, ".prototype"); ok {
		return owner{memberof: base, scope: doclet.ScopeInstance}
	}
	return owner{memberof: name, scope: doclet.ScopeStatic}
}

// symbol is what the code following a comment declares.
type symbol struct {
	name     string
	memberof string
	kind     doclet.Kind
	scope    doclet.Scope
}

func (v *visitor) symbolOf(code jsast.Node) symbol {
	switch n := code.(type) {
	case *jsast.FunctionDeclaration:
		return symbol{name: n.Name, kind: doclet.KindFunction}
	case *jsast.ClassDeclaration:
		return symbol{name: n.Name, kind: doclet.KindClass}
	case *jsast.VariableDeclaration:
		if len(n.Declarations) > 0 {
			return v.symbolOf(n.Declarations[0])
		}
	case *jsast.VariableDeclarator:
		return symbol{name: n.Name, kind: kindOf(n.Init)}
	case *jsast.ExpressionStatement:
		return v.symbolOf(n.Expression)
	case *jsast.Other:
		if n.Type == "export_statement" && len(n.Children) == 1 {
			return v.symbolOf(n.Children[0])
		}
	case *jsast.AssignmentExpression:
		name, ok := jsast.DottedName(n.Left)
		if !ok {
			return symbol{}
		}
		return v.assignedSymbol(name, kindOf(n.Right))
	case *jsast.Property:
		o := v.owners[n]
		return symbol{name: n.Key, memberof: o.memberof, scope: o.scope, kind: kindOf(n.Value)}
	case *jsast.FunctionExpression:
		o, ok := v.owners[n]
		if !ok {
			return symbol{name: n.Name, kind: doclet.KindFunction}
		}
		if n.Name == "constructor" {
			return symbol{name: o.memberof, kind: doclet.KindClass}
		}
		return symbol{name: n.Name, memberof: o.memberof, scope: o.scope, kind: doclet.KindFunction}
	}
	return symbol{}
}

func (v *visitor) assignedSymbol(target string, kind doclet.Kind) symbol {
	if rest, ok := strings.CutPrefix(target, "this."); ok {
		var memberof string
		if len(v.scopes) > 0 {
			memberof = v.scopes[len(v.scopes)-1]
		}
		return symbol{name: rest, memberof: memberof, scope: doclet.ScopeInstance, kind: kind}
	}
	if base, name, ok := strings.Cut(target, ".prototype."); ok {
		return symbol{name: name, memberof: base, scope: doclet.ScopeInstance, kind: kind}
	}
	if i := strings.LastIndex(target, "."); i >= 0 {
		return symbol{name: target[i+1:], memberof: target[:i], scope: doclet.ScopeStatic, kind: kind}
	}
	return symbol{name: target, kind: kind}
}

func kindOf(value jsast.Node) doclet.Kind {
	switch value.(type) {
	case *jsast.FunctionExpression:
		return doclet.KindFunction
	case *jsast.ClassDeclaration:
		return doclet.KindClass
	default:
		return doclet.KindMember
	}
}

// authoredDoclet completes the doclet of a regular comment with the
// name, kind and parent inferred from code. Comments naming nothing are dropped.
func (v *visitor) authoredDoclet(res *jsdoc.Result, c jsast.Comment, code jsast.Node) *doclet.Doclet {
	d := res.Doclet
	var sym symbol
	if code != nil {
		sym = v.symbolOf(code)
	}
	if d.Kind == "" {
		d.Kind = sym.kind
	}
	if d.Kind == "" {
		d.Kind = doclet.KindMember
	}
	if d.Name == "" {
		d.Name = sym.name
		if d.Memberof == "" {
			d.Memberof = sym.memberof
		}
		if d.Scope == "" {
			d.Scope = sym.scope
		}
	}
	if d.Name == "" {
		v.scanner.logger.Debug("skipping comment without a symbol name",
			zap.String("file", v.filename),
			zap.Int("line", c.Loc.Start.Line))
		return nil
	}
	if d.Memberof == "" {
		if i := strings.LastIndexAny(d.Name, ".#~"); i > 0 {
			d.Memberof = d.Name[:i]
			if d.Scope == "" {
				d.Scope = separatorScope(d.Name[i])
			}
			d.Name = d.Name[i+1:]
		}
	}
	if d.Scope == "" {
		switch {
		case d.Memberof != "":
			d.Scope = doclet.ScopeStatic
		case code != nil && len(v.scopes) > 0:
			d.Scope = doclet.ScopeInner
		default:
			d.Scope = doclet.ScopeGlobal
		}
	}
	d.Longname = Longname(d.Memberof, d.Scope, d.Name)
	d.Meta = v.meta(c, code)
	return d
}

func separatorScope(sep byte) doclet.Scope {
	switch sep {
	case '#':
		return doclet.ScopeInstance
	case '~':
		return doclet.ScopeInner
	default:
		return doclet.ScopeStatic
	}
}

// Longname joins a symbol name with its parent using the JSDoc scope separators.
func Longname(memberof string, scope doclet.Scope, name string) string {
	if memberof == "" {
		return name
	}
	switch scope {
	case doclet.ScopeInstance:
		return memberof + "#" + name
	case doclet.ScopeInner:
		return memberof + "~" + name
	default:
		return memberof + "." + name
	}
}
