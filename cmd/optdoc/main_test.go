package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/optdoc/internal/config"
	"github.com/nieomylnieja/optdoc/pkg/optdoc"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigDefault(t *testing.T) {
	out, err := execute(t, "config", "default")
	require.NoError(t, err)

	conf, err := config.Decode([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), conf)
}

func TestConfigSchema(t *testing.T) {
	out, err := execute(t, "config", "schema")
	require.NoError(t, err)

	var doc struct {
		Name       string `json:"name"`
		Properties []struct {
			Path string `json:"path"`
		} `json:"properties"`
	}
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &doc))
	assert.Equal(t, "Config", doc.Name)
	paths := make([]string, 0, len(doc.Properties))
	for _, p := range doc.Properties {
		paths = append(paths, p.Path)
	}
	assert.Contains(t, paths, "$.output.declarations")
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// setupProject creates a minimal documented project inside a git repository.
func setupProject(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	dir := t.TempDir()
	files := map[string]string{
		config.DefaultFilename: "project:\n  name: Highcharts\n  root: .\npalette: \"\"\n",
		"package.json":         `{"version": "11.4.0"}`,
		"js/Title.js": `/**
 * Options for the chart title.
 *
 * @optionparent title
 */
var titleOptions = {
    text: 'Chart title'
};
`,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	git(t, dir, "init", "--quiet", "--initial-branch=docs")
	git(t, dir, "-c", "user.name=test", "-c", "user.email=test@example.com",
		"commit", "--quiet", "--allow-empty", "-m", "initial")
	return dir
}

func TestGenerateAndCheck(t *testing.T) {
	color.NoColor = true
	dir := setupProject(t)
	configPath := filepath.Join(dir, config.DefaultFilename)

	_, err := execute(t, "check", "--config", configPath)
	require.ErrorIs(t, err, optdoc.ErrOutdated)

	out, err := execute(t, "generate", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "highcharts.d.ts"), strings.TrimSpace(out))
	for _, name := range []string{"tree.json", "raw.json", "highcharts.d.ts"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	out, err = execute(t, "check", "--config", configPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "highcharts.d.ts"), []byte("\n"), 0o600))
	out, err = execute(t, "check", "--config", configPath)
	require.ErrorIs(t, err, optdoc.ErrOutdated)
	assert.Contains(t, out, "+++ generated")
	assert.Contains(t, out, "+declare namespace Highcharts {")
}

func TestPrintDiff(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	diff := "--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n context\n"
	printDiff(&buf, diff)
	assert.Equal(t, diff, buf.String())
}
