package optdoc

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/artifact"
	"github.com/nieomylnieja/optdoc/internal/config"
	"github.com/nieomylnieja/optdoc/internal/gitmeta"
	"github.com/nieomylnieja/optdoc/internal/normalize"
	"github.com/nieomylnieja/optdoc/internal/palette"
	"github.com/nieomylnieja/optdoc/internal/pathutils"
	"github.com/nieomylnieja/optdoc/internal/scanner"
	"github.com/nieomylnieja/optdoc/internal/tsd"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

const packageFile = "package.json"

// Result holds every generated artifact.
type Result struct {
	Meta         artifact.Meta
	Tree         *optiontree.Tree
	SourceFiles  []string
	Doclets      []*doclet.Doclet
	Declarations []byte
}

// Generate scans the sources listed by conf and produces the documentation artifacts.
// Nothing is written to disk, see [Write].
func Generate(ctx context.Context, conf config.Config, opts ...GenerateOption) (*Result, error) {
	sources, err := CollectSources(conf)
	if err != nil {
		return nil, err
	}
	return GenerateFromSources(ctx, conf, sources, opts...)
}

// GenerateFromSources works like [Generate] for sources which were already read.
func GenerateFromSources(
	ctx context.Context,
	conf config.Config,
	sources []Source,
	opts ...GenerateOption,
) (*Result, error) {
	options := buildOptions(opts)
	logger := options.logger

	meta, err := readMeta(ctx, conf, options)
	if err != nil {
		return nil, err
	}
	pal, err := loadPalette(conf)
	if err != nil {
		return nil, err
	}
	if len(pal) > 0 {
		logger.Debug("loaded palette", zap.Strings("variables", pal.Names()))
	}

	tree := optiontree.New()
	s := scanner.New(tree, logger,
		scanner.WithConventions(conf.Conventions),
		scanner.WithSamplesDir(conf.Path(conf.Samples)))
	paths := make([]string, 0, len(sources))
	for _, src := range sources {
		if err = ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "scan interrupted")
		}
		if err = s.ScanSource(ctx, src.Path, pal.Apply(src.Data)); err != nil {
			return nil, err
		}
		paths = append(paths, src.Path)
	}
	logger.Info("scanned sources",
		zap.Int("files", len(paths)),
		zap.Int("doclets", len(s.Doclets())))

	prefix := pathutils.CommonPrefix(paths)
	tree.Finalize(func(filename string) string { return pathutils.Shorten(filename, prefix) })
	postProcessTree(tree, options.filterPaths,
		removeTrailingWhitespace,
		addSeriesTypeDescription(conf, tree, logger),
	)

	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "generation interrupted")
	}
	normalized, err := normalize.New(conf.NormalizeOptions(), logger).Normalize(tree, s.Doclets(), paths)
	if err != nil {
		return nil, err
	}

	declarations, err := tsd.Render(tsd.Banner{
		Name:    conf.Project.Name,
		Version: meta.Version,
		URL:     conf.Project.URL,
	}, normalized.Doclets)
	if err != nil {
		return nil, err
	}
	return &Result{
		Meta:         meta,
		Tree:         tree,
		SourceFiles:  normalized.SourceFiles,
		Doclets:      normalized.Doclets,
		Declarations: declarations,
	}, nil
}

func readMeta(ctx context.Context, conf config.Config, options generateOptions) (artifact.Meta, error) {
	meta := artifact.Meta{
		Version: options.version,
		Date:    options.now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT-0700"),
	}
	if meta.Version == "" {
		version, err := artifact.PackageVersion(conf.Path(packageFile))
		if err != nil {
			return artifact.Meta{}, err
		}
		meta.Version = version
	}
	if options.revision != nil {
		meta.Info = *options.revision
		return meta, nil
	}
	info, err := gitmeta.Read(ctx, conf.Project.Root)
	if err != nil {
		return artifact.Meta{}, errors.Wrap(err, "failed to read revision")
	}
	meta.Info = info
	return meta, nil
}

func loadPalette(conf config.Config) (palette.Palette, error) {
	if conf.Palette == "" {
		return nil, nil
	}
	return palette.Load(conf.Path(conf.Palette))
}

// Write stores the artifacts of r at the paths configured in conf.
func Write(r *Result, conf config.Config) error {
	tree, err := artifact.EncodeTree(r.Meta, r.Tree)
	if err != nil {
		return err
	}
	raw, err := artifact.EncodeRaw(artifact.Raw{
		Meta:        r.Meta,
		SourceFiles: r.SourceFiles,
		Doclets:     r.Doclets,
	})
	if err != nil {
		return err
	}
	for _, out := range []struct {
		path string
		data []byte
	}{
		{conf.Path(conf.Output.Tree), tree},
		{conf.Path(conf.Output.Raw), raw},
		{conf.Path(conf.Output.Declarations), r.Declarations},
	} {
		if err = artifact.WriteFile(out.path, out.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
