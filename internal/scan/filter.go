package scan

import (
	"path/filepath"
	"sort"
	"strings"
)

// ImageExtensions are the extensions accepted as samples by default.
var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// Options controls which directory entries Samples keeps.
type Options struct {
	// Extensions accepted, case-insensitive, with or without a leading dot.
	Extensions []string
	// Exclude lists exact entry names that are never returned (e.g. the
	// manifest file itself).
	Exclude []string
}

// ImageOptions returns the default sample filter: jpg/jpeg/png, hidden files
// dropped, and the named output file excluded.
func ImageOptions(exclude ...string) Options {
	return Options{
		Extensions: append([]string(nil), ImageExtensions...),
		Exclude:    append([]string(nil), exclude...),
	}
}

// extensionSet normalizes exts into a lookup set of lowercased, dot-prefixed
// extensions. Blank entries are skipped.
func extensionSet(exts []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return allowed
}

// hasAllowedExt reports whether name's final extension is in allowed.
func hasAllowedExt(name string, allowed map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == "." {
		return false
	}
	_, ok := allowed[ext]
	return ok
}

// SortFold sorts names by their lowercased form. The sort is stable, so names
// that fold to the same key keep their input order.
func SortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
