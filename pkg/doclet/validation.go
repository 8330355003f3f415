package doclet

import (
	"sort"
	"strings"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"
)

var docletValidator = govy.New(
	govy.For(func(d Doclet) string { return d.Longname }).
		WithName("longname").
		Rules(rules.StringNotEmpty()),
	govy.For(func(d Doclet) Kind { return d.Kind }).
		WithName("kind").
		Rules(rules.OneOf(Kinds...)),
	govy.For(func(d Doclet) Scope { return d.Scope }).
		WithName("scope").
		Rules(optionalScope()),
).WithName("Doclet")

func optionalScope() govy.Rule[Scope] {
	return govy.NewRule(func(s Scope) error {
		if s == "" {
			return nil
		}
		for _, valid := range Scopes {
			if s == valid {
				return nil
			}
		}
		return errors.Errorf("scope must be one of [%s]", joinScopes())
	}).WithDescription("scope must be empty or one of the known scopes")
}

func joinScopes() string {
	s := make([]string, 0, len(Scopes))
	for _, scope := range Scopes {
		s = append(s, string(scope))
	}
	return strings.Join(s, ", ")
}

// Validate checks a single doclet.
func Validate(d Doclet) error {
	return docletValidator.Validate(d)
}

type docletSet struct {
	Doclets []Doclet
	// AllowDangling skips the memberof resolution check.
	AllowDangling bool
}

var setValidator = govy.New(
	govy.ForSlice(func(s docletSet) []Doclet { return s.Doclets }).
		WithName("doclets").
		Rules(uniqueLongnames()).
		IncludeForEach(docletValidator),
	govy.For(govy.GetSelf[docletSet]()).
		When(func(s docletSet) bool { return !s.AllowDangling }).
		Rules(memberofResolves()),
).WithName("DocletSet")

func uniqueLongnames() govy.Rule[[]Doclet] {
	return govy.NewRule(func(doclets []Doclet) error {
		seen := make(map[string]struct{}, len(doclets))
		var duplicates []string
		for _, d := range doclets {
			if _, ok := seen[d.Longname]; ok {
				duplicates = append(duplicates, d.Longname)
				continue
			}
			seen[d.Longname] = struct{}{}
		}
		if len(duplicates) > 0 {
			return errors.Errorf("longnames must be unique, duplicates: %s", strings.Join(duplicates, ", "))
		}
		return nil
	}).WithDescription("every doclet must have a unique longname")
}

func memberofResolves() govy.Rule[docletSet] {
	return govy.NewRule(func(s docletSet) error {
		ptrs := make([]*Doclet, 0, len(s.Doclets))
		for i := range s.Doclets {
			ptrs = append(ptrs, &s.Doclets[i])
		}
		dangling := Dangling(ptrs)
		if len(dangling) == 0 {
			return nil
		}
		refs := make([]string, 0, len(dangling))
		for _, d := range dangling {
			refs = append(refs, d.Longname+" -> "+d.Memberof)
		}
		return errors.Errorf("memberof must reference an existing longname: %s", strings.Join(refs, ", "))
	}).WithDescription("every memberof must reference an existing longname")
}

// ValidateSet checks a normalized doclet collection: every doclet is valid,
// longnames are unique and, unless allowDangling is set, every memberof
// references the longname of another doclet in the set.
func ValidateSet(doclets []*Doclet, allowDangling bool) error {
	set := docletSet{
		Doclets:       make([]Doclet, 0, len(doclets)),
		AllowDangling: allowDangling,
	}
	for _, d := range doclets {
		set.Doclets = append(set.Doclets, *d)
	}
	return setValidator.Validate(set)
}

// Dangling returns the doclets whose memberof does not resolve, sorted by longname.
func Dangling(doclets []*Doclet) []*Doclet {
	longnames := make(map[string]struct{}, len(doclets))
	for _, d := range doclets {
		longnames[d.Longname] = struct{}{}
	}
	var out []*Doclet
	for _, d := range doclets {
		if d.Memberof == "" {
			continue
		}
		if _, ok := longnames[d.Memberof]; !ok {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Longname < out[j].Longname })
	return out
}
