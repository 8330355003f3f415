package pathutils

import (
	"path/filepath"
	"strings"
)

// CommonPrefix returns the longest directory prefix shared by all paths,
// including the trailing separator. A single path yields its directory.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	split := func(p string) []string {
		return strings.Split(filepath.ToSlash(filepath.Dir(p)), "/")
	}
	prefix := split(paths[0])
	for _, p := range paths[1:] {
		segments := split(p)
		n := 0
		for n < len(prefix) && n < len(segments) && prefix[n] == segments[n] {
			n++
		}
		prefix = prefix[:n]
	}
	if len(prefix) == 0 {
		return ""
	}
	joined := strings.Join(prefix, "/")
	if joined == "" {
		return "/"
	}
	if joined == "." {
		return ""
	}
	return joined + "/"
}

// ShortenPaths strips prefix from every path and converts separators to forward slashes.
func ShortenPaths(paths []string, prefix string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, Shorten(p, prefix))
	}
	return out
}

// Shorten strips prefix from path and converts separators to forward slashes.
func Shorten(path, prefix string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, filepath.ToSlash(prefix))
}
