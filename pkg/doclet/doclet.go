// Package doclet defines the flattened documentation record shared by the
// scanner, the option tree, the normalizer and the declaration emitter.
package doclet

import (
	"github.com/nieomylnieja/optdoc/internal/jsast"
)

// Kind is the declaration kind of a [Doclet].
type Kind string

const (
	KindFunction  Kind = "function"
	KindMember    Kind = "member"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindTypedef   Kind = "typedef"
	KindNamespace Kind = "namespace"
	KindMixin     Kind = "mixin"
)

// Kinds lists every valid [Kind].
var Kinds = []Kind{KindFunction, KindMember, KindClass, KindInterface, KindTypedef, KindNamespace, KindMixin}

// Scope is the scope of a [Doclet] relative to its parent.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeStatic   Scope = "static"
	ScopeInstance Scope = "instance"
	ScopeInner    Scope = "inner"
)

// Scopes lists every valid [Scope].
var Scopes = []Scope{ScopeGlobal, ScopeStatic, ScopeInstance, ScopeInner}

// Doclet is a single documented symbol.
type Doclet struct {
	Name             string            `json:"name,omitempty"`
	Longname         string            `json:"longname,omitempty"`
	Memberof         string            `json:"memberof,omitempty"`
	Kind             Kind              `json:"kind,omitempty"`
	Scope            Scope             `json:"scope,omitempty"`
	Type             *TypeNames        `json:"type,omitempty"`
	Description      string            `json:"description,omitempty"`
	Params           []Param           `json:"params,omitempty"`
	Returns          []Param           `json:"returns,omitempty"`
	Properties       []Param           `json:"properties,omitempty"`
	Augments         []string          `json:"augments,omitempty"`
	Mixes            []string          `json:"mixes,omitempty"`
	Since            string            `json:"since,omitempty"`
	Version          string            `json:"version,omitempty"`
	Deprecated       string            `json:"deprecated,omitempty"`
	Access           string            `json:"access,omitempty"`
	Optional         bool              `json:"optional,omitempty"`
	Readonly         bool              `json:"readonly,omitempty"`
	Defaultvalue     any               `json:"defaultvalue,omitempty"`
	DefaultByProduct map[string]string `json:"defaultByProduct,omitempty"`
	Products         []string          `json:"products,omitempty"`
	Samples          []Sample          `json:"samples,omitempty"`
	Exclude          []string          `json:"exclude,omitempty"`
	Values           []any             `json:"values,omitempty"`
	Productdesc      *ProductValue     `json:"productdesc,omitempty"`
	Context          string            `json:"context,omitempty"`
	Ignored          bool              `json:"ignored,omitempty"`
	Ignore           bool              `json:"ignore,omitempty"`
	Undocumented     bool              `json:"undocumented,omitempty"`
	Apioption        bool              `json:"apioption,omitempty"`
	Optionparent     bool              `json:"optionparent,omitempty"`
	Meta             *Meta             `json:"meta,omitempty"`
}

// TypeNames is a union of type expressions.
type TypeNames struct {
	Names []string `json:"names"`
}

// NewType returns a [TypeNames] holding names, or nil if there are none.
func NewType(names ...string) *TypeNames {
	if len(names) == 0 {
		return nil
	}
	return &TypeNames{Names: names}
}

// Param describes a function parameter, a return value or a typedef property.
type Param struct {
	Name         string     `json:"name,omitempty"`
	Type         *TypeNames `json:"type,omitempty"`
	Description  string     `json:"description,omitempty"`
	Optional     bool       `json:"optional,omitempty"`
	Defaultvalue string     `json:"defaultvalue,omitempty"`
}

// Sample points at a folder of the samples directory.
type Sample struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Products []string `json:"products,omitempty"`
}

// ProductValue is a tag value optionally limited to a set of products,
// written as `{highcharts|highstock} value`.
type ProductValue struct {
	Value    string   `json:"value"`
	Products []string `json:"products,omitempty"`
}

// Meta is the source location of a doclet.
type Meta struct {
	Filename  string `json:"filename,omitempty"`
	Path      string `json:"path,omitempty"`
	Lineno    int    `json:"lineno,omitempty"`
	LineEnd   int    `json:"lineEnd,omitempty"`
	Column    int    `json:"column,omitempty"`
	Shortpath string `json:"shortpath,omitempty"`
	// Code is the syntax node the comment was attached to.
	Code jsast.Node `json:"-"`
}

// HasType reports whether d carries at least one type name.
func (d *Doclet) HasType() bool {
	return d.Type != nil && len(d.Type.Names) > 0
}

// Clone returns a deep copy of d. The code node is shared.
func (d *Doclet) Clone() *Doclet {
	if d == nil {
		return nil
	}
	c := *d
	if d.Type != nil {
		c.Type = &TypeNames{Names: append([]string(nil), d.Type.Names...)}
	}
	c.Params = cloneParams(d.Params)
	c.Returns = cloneParams(d.Returns)
	c.Properties = cloneParams(d.Properties)
	c.Augments = append([]string(nil), d.Augments...)
	c.Mixes = append([]string(nil), d.Mixes...)
	c.Products = append([]string(nil), d.Products...)
	c.Samples = append([]Sample(nil), d.Samples...)
	c.Exclude = append([]string(nil), d.Exclude...)
	c.Values = append([]any(nil), d.Values...)
	if d.DefaultByProduct != nil {
		c.DefaultByProduct = make(map[string]string, len(d.DefaultByProduct))
		for k, v := range d.DefaultByProduct {
			c.DefaultByProduct[k] = v
		}
	}
	if d.Productdesc != nil {
		pd := *d.Productdesc
		c.Productdesc = &pd
	}
	if d.Meta != nil {
		m := *d.Meta
		c.Meta = &m
	}
	return &c
}

func cloneParams(params []Param) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i, p := range params {
		out[i] = p
		if p.Type != nil {
			out[i].Type = &TypeNames{Names: append([]string(nil), p.Type.Names...)}
		}
	}
	return out
}

// MergeMissing copies every field of src into d which is still empty in d.
// Fields already set in d are never overwritten.
func (d *Doclet) MergeMissing(src *Doclet) {
	if src == nil {
		return
	}
	setString(&d.Name, src.Name)
	setString(&d.Longname, src.Longname)
	setString(&d.Memberof, src.Memberof)
	if d.Kind == "" {
		d.Kind = src.Kind
	}
	if d.Scope == "" {
		d.Scope = src.Scope
	}
	if !d.HasType() && src.HasType() {
		d.Type = &TypeNames{Names: append([]string(nil), src.Type.Names...)}
	}
	setString(&d.Description, src.Description)
	setSlice(&d.Params, src.Params)
	setSlice(&d.Returns, src.Returns)
	setSlice(&d.Properties, src.Properties)
	setSlice(&d.Augments, src.Augments)
	setSlice(&d.Mixes, src.Mixes)
	setString(&d.Since, src.Since)
	setString(&d.Version, src.Version)
	setString(&d.Deprecated, src.Deprecated)
	setString(&d.Access, src.Access)
	d.Optional = d.Optional || src.Optional
	d.Readonly = d.Readonly || src.Readonly
	if d.Defaultvalue == nil {
		d.Defaultvalue = src.Defaultvalue
	}
	if len(d.DefaultByProduct) == 0 && len(src.DefaultByProduct) > 0 {
		d.DefaultByProduct = make(map[string]string, len(src.DefaultByProduct))
		for k, v := range src.DefaultByProduct {
			d.DefaultByProduct[k] = v
		}
	}
	setSlice(&d.Products, src.Products)
	setSlice(&d.Samples, src.Samples)
	setSlice(&d.Exclude, src.Exclude)
	setSlice(&d.Values, src.Values)
	if d.Productdesc == nil && src.Productdesc != nil {
		pd := *src.Productdesc
		d.Productdesc = &pd
	}
	setString(&d.Context, src.Context)
	d.Ignored = d.Ignored || src.Ignored
	d.Ignore = d.Ignore || src.Ignore
	d.Apioption = d.Apioption || src.Apioption
	d.Optionparent = d.Optionparent || src.Optionparent
	if d.Meta == nil && src.Meta != nil {
		m := *src.Meta
		d.Meta = &m
	}
}

func setString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func setSlice[T any](dst *[]T, src []T) {
	if len(*dst) == 0 && len(src) > 0 {
		*dst = append([]T(nil), src...)
	}
}
