package headers

import (
	"path"
	"strings"
)

const (
	// PlatformDir holds platform abstraction headers. Only PlatformException directly inside it is kept,
	// directories nested in it are excluded along with everything they contain
	PlatformDir       = "port"
	PlatformException = "port.h"
)

// Filter decides whether a path relative to the include root is safe to include.
// Paths are slash separated; matching is done on whole path components
type Filter struct {
	suffixes [][]string
}

// NewFilter builds a filter excluding every path that ends with one of suffixes
func NewFilter(suffixes []string) *Filter {
	f := &Filter{}
	for _, s := range suffixes {
		if parts := splitPath(s); len(parts) > 0 {
			f.suffixes = append(f.suffixes, parts)
		}
	}
	return f
}

// Include returns false if the path is denylisted or lies under the platform directory.
// A directory for which Include returns false is not descended into
func (f *Filter) Include(rel string) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return true
	}
	for _, suffix := range f.suffixes {
		if hasSuffix(parts, suffix) {
			return false
		}
	}
	if len(parts) > 1 && parts[0] == PlatformDir {
		return len(parts) == 2 && parts[1] == PlatformException
	}
	return true
}

func hasSuffix(parts, suffix []string) bool {
	if len(suffix) > len(parts) {
		return false
	}
	tail := parts[len(parts)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}
