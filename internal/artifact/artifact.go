// Package artifact writes the generated documentation files.
package artifact

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/optdoc/internal/gitmeta"
	"github.com/nieomylnieja/optdoc/pkg/doclet"
	"github.com/nieomylnieja/optdoc/pkg/optiontree"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const metaKey = "_meta"

// Meta describes the generated artifacts.
type Meta struct {
	Version string `json:"version"`
	gitmeta.Info
	Date string `json:"date,omitempty"`
}

// Raw is the content of raw.json.
type Raw struct {
	Meta        Meta             `json:"_meta"`
	SourceFiles []string         `json:"sourcefiles"`
	Doclets     []*doclet.Doclet `json:"doclets"`
}

// EncodeTree renders the option tree as an object keyed by the top-level
// options, with an additional `_meta` entry.
func EncodeTree(meta Meta, tree *optiontree.Tree) ([]byte, error) {
	roots := tree.Roots()
	out := make(map[string]any, len(roots)+1)
	for key, node := range roots {
		out[key] = node
	}
	out[metaKey] = meta
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode option tree")
	}
	return append(data, '\n'), nil
}

// EncodeRaw renders the normalized doclets.
func EncodeRaw(raw Raw) ([]byte, error) {
	if raw.SourceFiles == nil {
		raw.SourceFiles = []string{}
	}
	if raw.Doclets == nil {
		raw.Doclets = []*doclet.Doclet{}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode doclets")
	}
	return append(data, '\n'), nil
}

// PackageVersion reads the version field of a package.json file.
func PackageVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err = json.Unmarshal(data, &pkg); err != nil {
		return "", errors.Wrapf(err, "failed to decode %s", path)
	}
	return pkg.Version, nil
}

// WriteFile atomically replaces path with data.
// The data is written to a temporary file in the same directory,
// synced to disk and renamed over path.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return errors.Wrapf(err, "failed to set permissions of %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", tmp.Name(), path)
	}
	return nil
}
