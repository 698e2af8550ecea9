package translate

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"text/template"

	"github.com/turbot/steampipe-postgres-sys/cpp"
	"github.com/turbot/steampipe-postgres-sys/version"
	"golang.org/x/tools/imports"
)

const DefaultGoPackage = "pgsys"

var cgoTemplate = `// Code generated by pgsysgen {{.Version}}. DO NOT EDIT.

package {{.Package}}

/*
{{- range .IncludeDirs}}
#cgo CFLAGS: {{cflag .}}
{{- end}}
#include "{{.Header}}"
{{- range .Undefs}}
#undef {{.}}
{{- end}}
*/
import "C"

/**

This file includes the PostgreSQL server headers required by the rest of the package.
Every C declaration they make is available through the C pseudo package.

**/
`

type cgoData struct {
	Version     string
	Package     string
	IncludeDirs []string
	Header      string
	Undefs      []string
}

// Cgo generates a Go source file whose cgo preamble includes the umbrella header.
// cgo itself translates the declarations at compile time; rejected macros are
// undefined after the include so cgo derives nothing from them.
// Go zero values make DeriveDefault inherent
type Cgo struct {
	Package      string
	Preprocessor *cpp.Preprocessor

	tmpl *template.Template
}

func NewCgo(pkg string, preprocessor *cpp.Preprocessor) *Cgo {
	if pkg == "" {
		pkg = DefaultGoPackage
	}
	return &Cgo{
		Package:      pkg,
		Preprocessor: preprocessor,
		tmpl: template.Must(template.New("cgo").Funcs(template.FuncMap{
			"cflag": cgoIncludeFlag,
		}).Parse(cgoTemplate)),
	}
}

func (c *Cgo) Name() string {
	return BackendCgo
}

func (c *Cgo) Translate(ctx context.Context, req Request) ([]byte, error) {
	macros, err := c.Preprocessor.Macros(ctx, req.Header, req.IncludeDirs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
	}
	deps, err := c.Preprocessor.Dependencies(ctx, req.Header, req.IncludeDirs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
	}

	var buf bytes.Buffer
	err = c.tmpl.Execute(&buf, cgoData{
		Version:     version.String(),
		Package:     c.Package,
		IncludeDirs: req.IncludeDirs,
		Header:      req.Header,
		Undefs:      rejectedMacros(macros, req.Callbacks),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to render cgo source: %w", ErrTranslatorFailed, err)
	}

	src, err := imports.Process(DefaultBindingsName(BackendCgo), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generated cgo source does not parse: %w", ErrTranslatorFailed, err)
	}

	count := forwardIncludes(deps, req.Header, req.Callbacks)
	log.Printf("[TRACE] cgo generated %d bytes, %d included files", len(src), count)
	return src, nil
}

// cgo splits flags on spaces unless they are quoted
func cgoIncludeFlag(dir string) string {
	flag := "-I" + dir
	if strings.ContainsAny(flag, " \t\"'") {
		return strconv.Quote(flag)
	}
	return flag
}
