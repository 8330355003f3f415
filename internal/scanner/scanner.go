// Package scanner walks parsed sources, feeds option declarations into an
// [optiontree.Tree] and collects the remaining JSDoc comments as doclets.
package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/jsast"
	"github.com/nieomylnieja/optdoc/internal/jsdoc"
	"github.com/nieomylnieja/optdoc/internal/jsparse"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

// Option configures a [Scanner].
type Option func(s *Scanner)

// WithConventions overrides [DefaultConventions].
func WithConventions(c Conventions) Option {
	return func(s *Scanner) { s.conventions = c }
}

// WithSamplesDir enables the @sample folder existence check.
func WithSamplesDir(dir string) Option {
	return func(s *Scanner) { s.samplesDir = dir }
}

// Scanner collects options and doclets from many files into a single tree.
type Scanner struct {
	tree        *optiontree.Tree
	logger      *zap.Logger
	conventions Conventions
	samplesDir  string
	parser      *jsdoc.Parser
	doclets     []*doclet.Doclet
}

// New creates a [Scanner] writing options into tree.
func New(tree *optiontree.Tree, logger *zap.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scanner{
		tree:        tree,
		logger:      logger,
		conventions: DefaultConventions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jsdoc.NewParser(logger, s.samplesDir)
	return s
}

// Doclets returns the doclets authored in the scanned sources, in scan order.
func (s *Scanner) Doclets() []*doclet.Doclet {
	return s.doclets
}

var detachedCommentRegex = regexp.MustCompile(`\s\*/\s+\}`)

// ScanSource parses and scans a single source file.
func (s *Scanner) ScanSource(ctx context.Context, path string, src []byte) error {
	if matches := detachedCommentRegex.FindAll(src, -1); len(matches) > 0 {
		s.logger.Warn("comments followed by } will not be attached to code, move them before the code",
			zap.String("file", path),
			zap.Int("count", len(matches)))
	}
	file, err := jsparse.Parse(ctx, path, src)
	if err != nil {
		return err
	}
	if file.SyntaxErrors > 0 {
		s.logger.Warn("source contains syntax errors",
			zap.String("file", path),
			zap.Int("errors", file.SyntaxErrors))
	}
	s.Scan(file)
	return nil
}

// Scan processes every JSDoc comment of file.
func (s *Scanner) Scan(file *jsparse.File) {
	v := &visitor{
		scanner:  s,
		filename: file.Path,
		options:  make(map[*jsast.Property]struct{}),
		owners:   make(map[jsast.Node]owner),
	}
	jsast.Walk(v, file.Program)
}

// owner is the symbol which the members of an object literal or class body belong to.
type owner struct {
	memberof string
	scope    doclet.Scope
}

type visitor struct {
	scanner  *Scanner
	filename string
	// options holds the properties already documented as options.
	options map[*jsast.Property]struct{}
	owners  map[jsast.Node]owner
	// scopes holds the names of the enclosing classes and functions.
	scopes []string
}

func (v *visitor) Enter(n jsast.Node) bool {
	v.recordOwners(n)
	if prop, ok := n.(*jsast.Property); ok {
		if _, isOption := v.options[prop]; isOption {
			return true
		}
	}
	primary, others := selectComment(n.Leading())
	for _, c := range others {
		v.processComment(c, nil)
	}
	if primary != nil {
		v.processComment(*primary, n)
	}
	if name, ok := scopeName(n); ok {
		v.scopes = append(v.scopes, name)
	}
	return true
}

func (v *visitor) Leave(n jsast.Node) {
	if _, ok := scopeName(n); ok {
		v.scopes = v.scopes[:len(v.scopes)-1]
	}
	for _, c := range n.Trailing() {
		if c.IsDoc() {
			v.processComment(c, nil)
		}
	}
}

// selectComment picks the comment documenting a node: the one carrying
// @optionparent, or else the last one. The remaining comments are free floating.
func selectComment(comments []jsast.Comment) (primary *jsast.Comment, others []jsast.Comment) {
	docs := make([]jsast.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsDoc() {
			docs = append(docs, c)
		}
	}
	if len(docs) == 0 {
		return nil, nil
	}
	idx := len(docs) - 1
	for i, c := range docs {
		if strings.Contains(c.Text, "@optionparent") {
			idx = i
			break
		}
	}
	for i, c := range docs {
		if i != idx {
			others = append(others, c)
		}
	}
	return &docs[idx], others
}

func (v *visitor) processComment(c jsast.Comment, code jsast.Node) {
	res := v.scanner.parser.Parse(c.Text, v.filename)
	switch {
	case res.HasOptionParent:
		v.declareOptions(res, c, code)
	case res.HasAPIOption:
		v.augmentOption(res, c)
	default:
		if d := v.authoredDoclet(res, c, code); d != nil {
			v.scanner.doclets = append(v.scanner.doclets, d)
		}
		return
	}
	res.Doclet.Meta = v.meta(c, code)
	v.scanner.doclets = append(v.scanner.doclets, res.Doclet)
}

func (v *visitor) declareOptions(res *jsdoc.Result, c jsast.Comment, code jsast.Node) {
	log := v.scanner.logger
	path := optiontree.SplitPath(res.OptionParent)
	prov := v.provenance(c)
	if res.IgnoreOption {
		v.scanner.tree.Remove(path)
		return
	}
	if code == nil {
		if len(path) > 0 {
			v.scanner.tree.Augment(path, res.Doclet, prov)
		}
		return
	}
	decl, ok := v.scanner.conventions.resolveDeclaration(code)
	if !ok {
		log.Error("code tagged with @optionparent must be an object",
			zap.String("file", v.filename),
			zap.Int("line", code.Location().Start.Line),
			zap.String("node", nodeType(code)))
		return
	}
	if f, isFactory := decl.(factoryCall); isFactory {
		log.Debug("found series type",
			zap.String("file", v.filename),
			zap.String("type", f.name),
			zap.String("parent", f.parent))
	}
	object := decl.options()
	v.markOptions(object)
	if len(path) > 0 {
		if _, declared := v.scanner.tree.Declare(path, prov); !declared {
			return
		}
		v.scanner.tree.Augment(path, res.Doclet, prov)
	}
	if len(object.Properties) == 0 {
		log.Debug("option declaration has no properties",
			zap.String("file", v.filename),
			zap.Int("line", object.Location().Start.Line))
	}
	for _, prop := range object.Properties {
		v.scanner.tree.Decorate(path, prop, v.filename)
		v.documentOption(path, prop)
	}
}

// documentOption merges the comments of an option property, and of its
// nested properties, into the option nodes.
func (v *visitor) documentOption(parent []string, prop *jsast.Property) {
	path := append(append([]string(nil), parent...), prop.Key)
	if _, exists := v.scanner.tree.Lookup(path); !exists {
		return
	}
	primary, others := selectComment(prop.Leading())
	for _, c := range others {
		v.processComment(c, nil)
	}
	if primary != nil {
		res := v.scanner.parser.Parse(primary.Text, v.filename)
		switch {
		case res.IgnoreOption:
			v.scanner.tree.Remove(path)
			return
		case res.HasAPIOption:
			v.augmentOption(res, *primary)
		default:
			v.scanner.tree.Augment(path, res.Doclet, v.provenance(*primary))
		}
	}
	if object, ok := prop.Value.(*jsast.ObjectExpression); ok {
		for _, child := range object.Properties {
			v.documentOption(path, child)
		}
	}
}

// markOptions excludes the properties of an option object, at any depth,
// from the regular doclet collection.
func (v *visitor) markOptions(object *jsast.ObjectExpression) {
	for _, prop := range object.Properties {
		v.options[prop] = struct{}{}
		if nested, ok := prop.Value.(*jsast.ObjectExpression); ok {
			v.markOptions(nested)
		}
	}
}

func (v *visitor) augmentOption(res *jsdoc.Result, c jsast.Comment) {
	if res.APIOption == "" {
		v.scanner.logger.Error("@apioption is missing an argument",
			zap.String("file", v.filename),
			zap.Int("line", c.Loc.Start.Line))
		return
	}
	path := optiontree.SplitPath(res.APIOption)
	if res.IgnoreOption {
		v.scanner.tree.Remove(path)
		return
	}
	v.scanner.tree.Augment(path, res.Doclet, v.provenance(c))
}

func (v *visitor) provenance(c jsast.Comment) optiontree.Provenance {
	return optiontree.Provenance{
		Filename: v.filename,
		Line:     c.Loc.Start.Line,
		LineEnd:  c.Loc.End.Line,
		Column:   c.Loc.Start.Column,
	}
}

func (v *visitor) meta(c jsast.Comment, code jsast.Node) *doclet.Meta {
	m := &doclet.Meta{
		Filename: filepath.Base(v.filename),
		Path:     filepath.Dir(v.filename),
		Lineno:   c.Loc.Start.Line,
		LineEnd:  c.Loc.End.Line,
		Column:   c.Loc.Start.Column,
		Code:     code,
	}
	if code != nil {
		loc := code.Location()
		m.Lineno, m.LineEnd, m.Column = loc.Start.Line, loc.End.Line, loc.Start.Column
	}
	return m
}

func nodeType(n jsast.Node) string {
	if o, ok := n.(*jsast.Other); ok {
		return o.Type
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*jsast.")
}
