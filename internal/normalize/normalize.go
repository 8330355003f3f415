// Package normalize merges the option tree with the authored doclets into
// a single flat collection of qualified, typed and validated doclets.
package normalize

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/pathutils"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

// Normalizer runs the normalization passes.
type Normalizer struct {
	opts   Options
	logger *zap.Logger
}

// New creates a [Normalizer]. A nil logger discards all output.
func New(opts Options, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{opts: opts, logger: logger}
}

// Result is the normalized doclet collection.
type Result struct {
	// SourceFiles lists the scanned files, shortened by their common prefix.
	SourceFiles []string
	Doclets     []*doclet.Doclet
}

// Normalize merges the finalized tree with the authored doclets.
// Authored doclets are modified in place.
// sourceFiles are the scanned file paths, used for the doclets' shortpath.
func (n *Normalizer) Normalize(
	tree *optiontree.Tree,
	authored []*doclet.Doclet,
	sourceFiles []string,
) (*Result, error) {
	if tree != nil && !tree.Finalized() {
		return nil, errors.New("option tree must be finalized before normalization")
	}
	doclets := make([]*doclet.Doclet, 0, len(authored))
	for _, d := range authored {
		n.rename(d)
		doclets = append(doclets, d)
	}
	if tree != nil {
		doclets = append(doclets, n.synthesize(tree)...)
	}
	doclets = n.synthesizeNamespace(doclets)
	doclets = n.prune(doclets)
	doclets = dedupe(doclets)

	n.qualify(doclets)
	doclets = dedupe(doclets)
	for _, d := range doclets {
		inferMemberType(d)
	}
	correctMixinScope(doclets)

	prefix := pathutils.CommonPrefix(sourceFiles)
	setShortpaths(doclets, prefix)
	sortDoclets(doclets)
	for _, d := range doclets {
		if d.Meta != nil {
			d.Meta.Code = nil
		}
	}

	if err := doclet.ValidateSet(doclets, n.opts.AllowDangling); err != nil {
		return nil, errors.Wrap(err, "normalized doclets are invalid")
	}
	for _, d := range doclet.Dangling(doclets) {
		n.logger.Warn("memberof does not reference an existing doclet",
			zap.String("longname", d.Longname),
			zap.String("memberof", d.Memberof))
	}
	return &Result{
		SourceFiles: pathutils.ShortenPaths(sourceFiles, prefix),
		Doclets:     doclets,
	}, nil
}

// dedupe keeps the first doclet of every longname, later ones only fill its empty fields.
func dedupe(doclets []*doclet.Doclet) []*doclet.Doclet {
	seen := make(map[string]*doclet.Doclet, len(doclets))
	out := doclets[:0]
	for _, d := range doclets {
		if first, ok := seen[d.Longname]; ok {
			first.MergeMissing(d)
			continue
		}
		seen[d.Longname] = d
		out = append(out, d)
	}
	return out
}

func setShortpaths(doclets []*doclet.Doclet, prefix string) {
	for _, d := range doclets {
		if d.Meta == nil || d.Meta.Filename == "" {
			continue
		}
		d.Meta.Shortpath = pathutils.Shorten(filepath.Join(d.Meta.Path, d.Meta.Filename), prefix)
	}
}

func sortDoclets(doclets []*doclet.Doclet) {
	sort.SliceStable(doclets, func(i, j int) bool {
		a, b := doclets[i], doclets[j]
		if a.Longname != b.Longname {
			return a.Longname < b.Longname
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Since < b.Since
	})
}
