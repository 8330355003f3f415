package optdoc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/txtar"

	"github.com/nieomylnieja/optdoc/internal/config"
	"github.com/nieomylnieja/optdoc/internal/jsparse"
)

// Source is a single documented file.
type Source struct {
	Path string
	Data []byte
}

// CollectSources reads every supported file listed by the configuration sources,
// skipping the excluded paths. Files are returned sorted by path.
func CollectSources(conf config.Config) ([]Source, error) {
	excluded := make([]string, 0, len(conf.Exclude))
	for _, e := range conf.Exclude {
		excluded = append(excluded, filepath.Clean(conf.Path(e)))
	}
	isExcluded := func(path string) bool {
		for _, e := range excluded {
			if path == e || strings.HasPrefix(path, e+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, src := range conf.Sources {
		root := filepath.Clean(conf.Path(src))
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !jsparse.Supported(path) {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to collect sources from %s", root)
		}
	}
	sort.Strings(paths)

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read source %s", path)
		}
		sources = append(sources, Source{Path: path, Data: data})
	}
	return sources, nil
}

// LoadArchive reads sources from a txtar archive, in archive order.
// Files which are not supported sources are skipped.
func LoadArchive(path string) ([]Source, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read archive %s", path)
	}
	sources := make([]Source, 0, len(archive.Files))
	for _, f := range archive.Files {
		if !jsparse.Supported(f.Name) {
			continue
		}
		sources = append(sources, Source{Path: f.Name, Data: f.Data})
	}
	return sources, nil
}
