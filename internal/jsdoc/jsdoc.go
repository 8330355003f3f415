// Package jsdoc parses JSDoc block comments into doclets.
//
// Besides the standard symbol tags it understands the option-tree vocabulary:
// @optionparent, @apioption and @ignore-option, and the product annotations
// @product, @sample, @default, @excluding, @values, @productdesc and @context.
package jsdoc

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/typeexpr"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
)

// Tag is a single `@title value` entry of a comment.
type Tag struct {
	Title string
	Value string
}

// Comment is the raw structure of a JSDoc block.
type Comment struct {
	Description string
	Tags        []Tag
}

// Has reports whether the comment contains a tag with the given title.
func (c Comment) Has(title string) bool {
	_, ok := c.Value(title)
	return ok
}

// Value returns the value of the first tag with the given title.
func (c Comment) Value(title string) (string, bool) {
	for _, t := range c.Tags {
		if t.Title == title {
			return t.Value, true
		}
	}
	return "", false
}

var tagLineRegex = regexp.MustCompile(`^@([A-Za-z][\w-]*)\s*(.*)$`)

// ParseComment splits a raw `/** ... */` comment into description and tags.
func ParseComment(raw string) Comment {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "/**")
	raw = strings.TrimSuffix(raw, "*/")

	var (
		comment     Comment
		description []string
		current     *Tag
		value       []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Value = strings.TrimSpace(strings.Join(value, "\n"))
		comment.Tags = append(comment.Tags, *current)
		current = nil
		value = nil
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, " \t\r")
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimPrefix(line, " ")
		}
		if m := tagLineRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			current = &Tag{Title: m[1]}
			value = []string{m[2]}
			continue
		}
		if current != nil {
			value = append(value, line)
			continue
		}
		description = append(description, line)
	}
	flush()
	comment.Description = strings.TrimSpace(strings.Join(description, "\n"))
	return comment
}

// Result is a parsed comment together with the option-tree directives it carries.
type Result struct {
	Comment Comment
	Doclet  *doclet.Doclet
	// OptionParent is the argument of @optionparent, empty for the root.
	OptionParent    string
	HasOptionParent bool
	// APIOption is the argument of @apioption.
	APIOption    string
	HasAPIOption bool
	IgnoreOption bool
}

// Parser turns comments into doclets.
type Parser struct {
	samplesDir string
	logger     *zap.Logger
}

// NewParser creates a [Parser]. When samplesDir is not empty, @sample folders
// are checked for existence relative to it.
func NewParser(logger *zap.Logger, samplesDir string) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{samplesDir: samplesDir, logger: logger}
}

// Parse parses a raw comment found in file.
func (p *Parser) Parse(raw, file string) *Result {
	c := ParseComment(raw)
	res := &Result{Comment: c, Doclet: &doclet.Doclet{Description: c.Description}}
	d := res.Doclet
	for _, tag := range c.Tags {
		p.applyTag(res, d, tag, file)
	}
	return res
}

func (p *Parser) applyTag(res *Result, d *doclet.Doclet, tag Tag, file string) {
	switch tag.Title {
	case "name":
		d.Name = tag.Value
	case "description", "desc", "classdesc":
		if d.Description == "" {
			d.Description = tag.Value
		}
	case "function", "func", "method":
		setKind(d, doclet.KindFunction, tag.Value)
	case "callback":
		setKind(d, doclet.KindTypedef, tag.Value)
		d.Type = doclet.NewType("function")
	case "class", "constructor":
		setKind(d, doclet.KindClass, tag.Value)
	case "interface":
		setKind(d, doclet.KindInterface, tag.Value)
	case "namespace":
		setKind(d, doclet.KindNamespace, tag.Value)
	case "mixin":
		setKind(d, doclet.KindMixin, tag.Value)
	case "typedef":
		typ, rest := splitType(tag.Value)
		setKind(d, doclet.KindTypedef, firstWord(rest))
		d.Type = typeNames(typ)
	case "member", "var":
		typ, rest := splitType(tag.Value)
		setKind(d, doclet.KindMember, firstWord(rest))
		if typ != "" {
			d.Type = typeNames(typ)
		}
	case "memberof":
		memberof := strings.TrimSpace(tag.Value)
		switch {
		case strings.HasSuffix(memberof, "#"):
			d.Scope = doclet.ScopeInstance
			memberof = strings.TrimSuffix(memberof, "#")
		case strings.HasSuffix(memberof, "."):
			d.Scope = doclet.ScopeStatic
			memberof = strings.TrimSuffix(memberof, ".")
		}
		d.Memberof = memberof
	case "param", "arg", "argument":
		d.Params = append(d.Params, parseParam(tag.Value, true))
	case "return", "returns":
		d.Returns = append(d.Returns, parseParam(tag.Value, false))
	case "type":
		typ, rest := splitType(tag.Value)
		if typ == "" {
			typ = rest
		}
		d.Type = typeNames(typ)
	case "property", "prop":
		d.Properties = append(d.Properties, parseParam(tag.Value, true))
	case "augments", "extends":
		typ, rest := splitType(tag.Value)
		if typ == "" {
			typ = firstWord(rest)
		}
		d.Augments = append(d.Augments, typ)
	case "mixes":
		d.Mixes = append(d.Mixes, firstWord(tag.Value))
	case "since":
		d.Since = tag.Value
	case "version":
		d.Version = tag.Value
	case "deprecated":
		d.Deprecated = tag.Value
		if d.Deprecated == "" {
			d.Deprecated = "true"
		}
	case "private", "public", "protected":
		d.Access = tag.Title
	case "access":
		d.Access = firstWord(tag.Value)
	case "static":
		d.Scope = doclet.ScopeStatic
	case "instance":
		d.Scope = doclet.ScopeInstance
	case "inner":
		d.Scope = doclet.ScopeInner
	case "global":
		d.Scope = doclet.ScopeGlobal
	case "ignore":
		d.Ignore = true
	case "readonly":
		d.Readonly = true
	case "optional":
		d.Optional = true
	case "default", "defaultvalue":
		applyDefault(d, tag.Value)
	case "sample":
		p.applySample(d, tag.Value, file)
	case "product":
		for _, product := range strings.Fields(tag.Value) {
			if !contains(d.Products, product) {
				d.Products = append(d.Products, product)
			}
		}
	case "exclude", "excluding":
		for _, item := range strings.Split(tag.Value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				d.Exclude = append(d.Exclude, item)
			}
		}
	case "validvalue", "values":
		d.Values = append(d.Values, parseValues(tag.Value)...)
	case "productdesc":
		pv := resolveProducts(tag.Value)
		d.Productdesc = &pv
	case "context":
		d.Context = tag.Value
	case "ignore-option":
		d.Ignored = true
		res.IgnoreOption = true
	case "apioption":
		d.Apioption = true
		d.Name = firstWord(tag.Value)
		res.APIOption = d.Name
		res.HasAPIOption = true
	case "optionparent":
		d.Optionparent = true
		d.Name = firstWord(tag.Value)
		res.OptionParent = d.Name
		res.HasOptionParent = true
	}
}

func setKind(d *doclet.Doclet, kind doclet.Kind, name string) {
	d.Kind = kind
	if name = firstWord(name); name != "" && d.Name == "" {
		d.Name = name
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitType extracts a leading `{type}` from a tag value.
func splitType(value string) (typ, rest string) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") {
		return "", value
	}
	depth := 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(value[1:i]), strings.TrimSpace(value[i+1:])
			}
		}
	}
	return "", value
}

func typeNames(typ string) *doclet.TypeNames {
	typ = strings.TrimSuffix(strings.TrimSpace(typ), "=")
	return doclet.NewType(typeexpr.Split(typeexpr.Normalize(typ))...)
}

// parseParam reads `{type} [name=default] description`.
// Return values have no name.
func parseParam(value string, named bool) doclet.Param {
	typ, rest := splitType(value)
	param := doclet.Param{}
	if strings.HasSuffix(typ, "=") {
		param.Optional = true
	}
	if typ != "" {
		param.Type = typeNames(typ)
	}
	if !named {
		param.Description = rest
		return param
	}
	name := firstWord(rest)
	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end > 0 {
			name = rest[1:end]
			rest = rest[end+1:]
			param.Optional = true
		}
	} else {
		rest = strings.TrimPrefix(rest, name)
	}
	if i := strings.Index(name, "="); i >= 0 {
		param.Defaultvalue = name[i+1:]
		name = name[:i]
	}
	param.Name = name
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
	param.Description = rest
	return param
}

var productRegex = regexp.MustCompile(`^\{([a-z|]+)\}`)

// resolveProducts reads a value optionally prefixed with `{product|product}`.
func resolveProducts(value string) doclet.ProductValue {
	value = strings.TrimSpace(value)
	pv := doclet.ProductValue{Value: value}
	if m := productRegex.FindStringSubmatch(value); m != nil {
		pv.Products = strings.Split(m[1], "|")
		pv.Value = strings.TrimSpace(value[len(m[0]):])
	}
	return pv
}

func applyDefault(d *doclet.Doclet, value string) {
	if value == "" {
		return
	}
	pv := resolveProducts(value)
	if len(pv.Products) == 0 {
		switch value {
		case "true":
			d.Defaultvalue = true
		case "false":
			d.Defaultvalue = false
		default:
			d.Defaultvalue = value
		}
		return
	}
	if d.DefaultByProduct == nil {
		d.DefaultByProduct = make(map[string]string, len(pv.Products))
	}
	for _, product := range pv.Products {
		d.DefaultByProduct[product] = pv.Value
	}
}

func (p *Parser) applySample(d *doclet.Doclet, value, file string) {
	pv := resolveProducts(value)
	fields := strings.Fields(pv.Value)
	if len(fields) == 0 {
		return
	}
	sample := doclet.Sample{
		Name:     strings.Join(fields[1:], " "),
		Value:    fields[0],
		Products: pv.Products,
	}
	if p.samplesDir != "" {
		if _, err := os.Stat(filepath.Join(p.samplesDir, sample.Value)); err != nil {
			p.logger.Error("@sample does not exist",
				zap.String("sample", sample.Value),
				zap.String("file", file))
		}
	}
	d.Samples = append(d.Samples, sample)
}

// parseValues reads @values, which are mostly JSON.
func parseValues(value string) []any {
	var v any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(value, &v); err != nil {
		return []any{value}
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
