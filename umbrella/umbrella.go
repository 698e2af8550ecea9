// Package umbrella synthesizes the single header handed to the binding translator
package umbrella

import (
	"bytes"
	"fmt"
	"log"

	"github.com/spf13/afero"
	"github.com/turbot/steampipe-postgres-sys/utils"
)

// DefaultRootHeader must be included before any other server header
const DefaultRootHeader = "postgres.h"

// Render returns the umbrella header: an include of root followed by an include of each header.
// headers are expected to be sorted; their order is kept. The root header and
// repeated paths are only included once
func Render(root string, headers []string) []byte {
	var buf bytes.Buffer
	seen := map[string]struct{}{root: {}}

	// root header first - other headers depend on the macros and typedefs it defines
	buf.WriteString(includeLine(root))
	for _, h := range headers {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		buf.WriteString(includeLine(h))
	}
	return buf.Bytes()
}

// Write renders the umbrella header and writes it to path.
// It returns whether the file content changed
func Write(fs afero.Fs, path, root string, headers []string) (bool, error) {
	content := Render(root, headers)
	changed, err := utils.WriteFileIfChanged(fs, path, content)
	if err != nil {
		return false, fmt.Errorf("failed to write umbrella header: %w", err)
	}
	log.Printf("[TRACE] umbrella header %s: %d includes, changed: %v", path, bytes.Count(content, []byte("\n")), changed)
	return changed, nil
}

func includeLine(header string) string {
	return fmt.Sprintf("#include \"%s\"\n", header)
}
