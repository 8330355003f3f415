// Package palette reads SCSS color variables and substitutes
// `${palette.<name>}` placeholders with their values.
package palette

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Palette maps a variable name (without the `$`) to its value.
type Palette map[string]string

var (
	variableRegexp    = regexp.MustCompile(`(?m)^\s*\$([\w-]+)\s*:\s*([^;]+);`)
	placeholderRegexp = regexp.MustCompile(`\$\{palette\.([\w-]+)\}`)
	lineCommentRegexp = regexp.MustCompile(`(?m)//.*$`)
)

// Load reads the palette from an SCSS file.
func Load(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open palette %s", path)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses `$name: value;` declarations. The `!default` flag is dropped.
func Read(r io.Reader) (Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read palette")
	}
	src := lineCommentRegexp.ReplaceAllString(string(data), "")
	p := make(Palette)
	for _, match := range variableRegexp.FindAllStringSubmatch(src, -1) {
		value := strings.TrimSpace(match[2])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!default"))
		p[match[1]] = value
	}
	return p, nil
}

// Apply replaces every known placeholder in src. Unknown placeholders are kept.
func (p Palette) Apply(src []byte) []byte {
	if len(p) == 0 {
		return src
	}
	return placeholderRegexp.ReplaceAllFunc(src, func(m []byte) []byte {
		name := string(placeholderRegexp.FindSubmatch(m)[1])
		if value, ok := p[name]; ok {
			return []byte(value)
		}
		return m
	})
}

// Names returns the sorted variable names.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
