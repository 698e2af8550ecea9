package headers

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const headerExt = ".h"

// Enumerate walks base depth first and returns the slash separated paths, relative to base,
// of every header the filter accepts. Directories rejected by the filter are pruned.
// Symlinks are followed, both for base and for entries inside it; paths stay relative to base.
// The result is sorted and free of duplicates so that repeated runs produce identical output.
// Any filesystem error aborts the walk, including a dangling symlink
func Enumerate(fs afero.Fs, base string, filter *Filter) ([]string, error) {
	info, err := fs.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("failed to read include directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("include directory %s is not a directory", base)
	}

	w := &walker{fs: fs, base: base, filter: filter}
	if err := w.walk("", []os.FileInfo{info}); err != nil {
		return nil, err
	}

	res := w.headers
	slices.Sort(res)
	res = slices.Compact(res)
	log.Printf("[TRACE] Enumerate found %d headers under %s (%d directories pruned)", len(res), base, w.pruned)
	return res, nil
}

type walker struct {
	fs     afero.Fs
	base   string
	filter *Filter

	headers []string
	pruned  int
}

// walk reads the directory rel; ancestors holds the resolved info of rel and every directory above it
func (w *walker) walk(rel string, ancestors []os.FileInfo) error {
	dir := filepath.Join(w.base, filepath.FromSlash(rel))
	// ReadDir lstats entries, so symlinks are reported as such
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			info, err = w.fs.Stat(filepath.Join(dir, entry.Name()))
			if err != nil {
				return fmt.Errorf("failed to resolve symlink %s: %w", childRel, err)
			}
		}

		if !w.filter.Include(childRel) {
			if info.IsDir() {
				log.Printf("[TRACE] Enumerate pruning directory %s", childRel)
				w.pruned++
			} else {
				log.Printf("[TRACE] Enumerate skipping %s", childRel)
			}
			continue
		}

		if info.IsDir() {
			if slices.ContainsFunc(ancestors, func(a os.FileInfo) bool { return os.SameFile(a, info) }) {
				return fmt.Errorf("symlink loop at %s", childRel)
			}
			if err := w.walk(childRel, append(ancestors, info)); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(childRel, headerExt) {
			w.headers = append(w.headers, childRel)
		}
	}
	return nil
}
