// Package gitmeta reads the revision of the documented sources from git.
package gitmeta

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Info identifies the revision the documentation was generated from.
type Info struct {
	Commit string `json:"commit"`
	Branch string `json:"branch"`
}

// Read returns the short commit hash and the branch name of the
// repository containing dir.
func Read(ctx context.Context, dir string) (Info, error) {
	commit, err := run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return Info{}, err
	}
	branch, err := run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Info{}, err
	}
	return Info{Commit: commit, Branch: branch}, nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "git %s failed: %s",
			strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
