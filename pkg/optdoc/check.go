package optdoc

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/nieomylnieja/optdoc/internal/config"
)

// ErrOutdated is returned by [Check] when the declarations on disk differ from the generated ones.
var ErrOutdated = errors.New("declarations are out of date")

// Check compares the generated declarations of r with the file configured in conf.
// When they differ it returns a unified diff together with [ErrOutdated].
func Check(r *Result, conf config.Config) (string, error) {
	path := conf.Path(conf.Output.Declarations)
	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	if bytes.Equal(current, r.Declarations) {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(r.Declarations)),
		FromFile: path,
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to compute diff")
	}
	return diff, ErrOutdated
}
