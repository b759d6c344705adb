package scan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bodymask/internal/safeio"
)

// Samples lists the entries of dir (relative to the filesystem root) that pass
// opts, sorted case-insensitively. Only the top level of dir is read.
//
// An entry is dropped when its name starts with ".", when it matches one of
// opts.Exclude exactly, or when its extension is not in opts.Extensions.
// Contents are never opened. The result is non-nil even when empty.
//
// A kept name that is not valid UTF-8 is an error: it cannot be written to
// JSON without altering it.
func Samples(fsys *safeio.SafeFS, dir string, opts Options) ([]string, error) {
	entries, err := fsys.SafeReadDir(dir)
	if err != nil {
		return nil, err
	}

	allowed := extensionSet(opts.Extensions)
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = struct{}{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		if !hasAllowedExt(name, allowed) {
			continue
		}
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("scan: sample name %q is not valid UTF-8", name)
		}
		names = append(names, name)
	}

	SortFold(names)
	return names, nil
}
