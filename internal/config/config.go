// Package config loads the optdoc.yaml project configuration.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nieomylnieja/optdoc/internal/normalize"
	"github.com/nieomylnieja/optdoc/internal/scanner"
)

// DefaultFilename is looked up when no configuration file is given.
const DefaultFilename = "optdoc.yaml"

// Config describes a documented project.
type Config struct {
	Project Project `yaml:"project"`
	// Sources are files or directories scanned for .js, .mjs and .ts files.
	Sources []string `yaml:"sources"`
	// Exclude lists path prefixes skipped while scanning.
	Exclude []string `yaml:"exclude,omitempty"`
	// Palette is an SCSS file with the `${palette.<name>}` values.
	Palette string `yaml:"palette,omitempty"`
	// Samples is the directory @sample tags refer to.
	Samples   string `yaml:"samples,omitempty"`
	Namespace string `yaml:"namespace"`
	RootType  string `yaml:"rootType"`
	// Aliases are merged into the default aliases.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	InstanceClasses    []string            `yaml:"instanceClasses,omitempty"`
	StaticNamespaces   []string            `yaml:"staticNamespaces,omitempty"`
	Conventions        scanner.Conventions `yaml:"conventions"`
	SeriesDescriptions SeriesDescriptions  `yaml:"seriesDescriptions"`
	Output             Output              `yaml:"output"`
	IncludePrivate     bool                `yaml:"includePrivate"`
	AllowDangling      bool                `yaml:"allowDangling"`
}

// Project identifies the documented project.
type Project struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`
	// Root is the directory every other path is relative to.
	// A relative root is resolved against the configuration file's directory.
	Root string `yaml:"root"`
}

// SeriesDescriptions names the option roots which receive the generated series type descriptions.
// Empty values disable the descriptions.
type SeriesDescriptions struct {
	Options   string `yaml:"options,omitempty"`
	Instances string `yaml:"instances,omitempty"`
}

// Output lists the generated files.
type Output struct {
	Tree         string `yaml:"tree"`
	Raw          string `yaml:"raw"`
	Declarations string `yaml:"declarations"`
}

// Default returns the configuration of the Highcharts sources.
func Default() Config {
	opts := normalize.DefaultOptions()
	return Config{
		Project: Project{
			Name: "Highcharts",
			URL:  "https://github.com/highcharts/highcharts",
			Root: ".",
		},
		Sources:          []string{"js/"},
		Palette:          "css/highcharts.scss",
		Samples:          "samples/",
		Namespace:        opts.Namespace,
		RootType:         opts.RootType,
		Aliases:          opts.Aliases,
		InstanceClasses:  opts.InstanceClasses,
		StaticNamespaces: opts.StaticNamespaces,
		Conventions:      scanner.DefaultConventions(),
		SeriesDescriptions: SeriesDescriptions{
			Options:   "plotOptions",
			Instances: "series",
		},
		Output: Output{
			Tree:         "tree.json",
			Raw:          "raw.json",
			Declarations: "highcharts.d.ts",
		},
	}
}

// Load reads the configuration file at path on top of [Default] and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
	}
	conf, err := Decode(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to load config file %s", path)
	}
	if !filepath.IsAbs(conf.Project.Root) {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to resolve config directory")
		}
		conf.Project.Root = filepath.Join(dir, conf.Project.Root)
	}
	return conf, nil
}

// Decode parses YAML on top of [Default] and validates the result.
// Unknown fields are rejected.
func Decode(data []byte) (Config, error) {
	conf := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := Validate(conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Path resolves p against the project root. Empty and absolute paths are returned as is.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.Root, p)
}

// NormalizeOptions returns the namespace conventions of the project.
func (c Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		Namespace:        c.Namespace,
		RootType:         c.RootType,
		Aliases:          c.Aliases,
		InstanceClasses:  c.InstanceClasses,
		StaticNamespaces: c.StaticNamespaces,
		IncludePrivate:   c.IncludePrivate,
		AllowDangling:    c.AllowDangling,
	}
}
