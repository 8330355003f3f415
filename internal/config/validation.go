package config

import (
	"regexp"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

var projectValidator = govy.New(
	govy.For(func(p Project) string { return p.Name }).
		WithName("name").
		Rules(rules.StringNotEmpty()),
	govy.For(func(p Project) string { return p.Root }).
		WithName("root").
		Rules(rules.StringNotEmpty()),
)

var outputValidator = govy.New(
	govy.For(func(o Output) string { return o.Tree }).
		WithName("tree").
		Rules(rules.StringNotEmpty()),
	govy.For(func(o Output) string { return o.Raw }).
		WithName("raw").
		Rules(rules.StringNotEmpty()),
	govy.For(func(o Output) string { return o.Declarations }).
		WithName("declarations").
		Rules(rules.StringNotEmpty()),
)

var validator = govy.New(
	govy.For(func(c Config) Project { return c.Project }).
		WithName("project").
		Include(projectValidator),
	govy.ForSlice(func(c Config) []string { return c.Sources }).
		WithName("sources").
		Rules(rules.SliceMinLength[[]string](1)).
		RulesForEach(rules.StringNotEmpty()),
	govy.For(func(c Config) string { return c.Namespace }).
		WithName("namespace").
		Rules(rules.StringNotEmpty(), identifier()),
	govy.For(func(c Config) string { return c.RootType }).
		WithName("rootType").
		Rules(rules.StringNotEmpty(), identifier()),
	govy.ForSlice(func(c Config) []string { return c.InstanceClasses }).
		WithName("instanceClasses").
		RulesForEach(identifier()),
	govy.ForSlice(func(c Config) []string { return c.StaticNamespaces }).
		WithName("staticNamespaces").
		RulesForEach(identifier()),
	govy.For(func(c Config) Output { return c.Output }).
		WithName("output").
		Include(outputValidator),
).WithName("Config")

func identifier() govy.Rule[string] {
	return govy.NewRule(func(s string) error {
		if s != "" && !identifierRegexp.MatchString(s) {
			return errors.Errorf("'%s' is not a valid JavaScript identifier", s)
		}
		return nil
	}).WithDescription("must be a valid JavaScript identifier")
}

// Validate checks the configuration.
func Validate(c Config) error {
	return validator.Validate(c)
}
