package pathutils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FindProjectRoot returns the absolute path to the project's root directory by
// searching for a marker file (e.g. package.json) in the current directory and parent directories.
// Returns an error if the current working directory cannot be determined,
// if filesystem operations fail, or if no marker file is found.
func FindProjectRoot(marker string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get current working directory")
	}
	return FindProjectRootFrom(dir, marker)
}

// FindProjectRootFrom works like [FindProjectRoot] but starts the search in dir.
func FindProjectRootFrom(dir, marker string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve absolute path of %s", dir)
	}
	for {
		markerPath := filepath.Join(dir, marker)
		fi, err := os.Stat(markerPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", errors.Wrapf(err, "failed to stat %s", markerPath)
			}
			// File doesn't exist, continue searching parent directories
		} else if !fi.IsDir() {
			return dir, nil
		}

		d := filepath.Dir(dir)
		if d == dir {
			break
		}
		dir = d
	}
	return "", errors.Errorf("%s not found in directory tree", marker)
}
