// Package translate invokes an external C header to binding translator on the umbrella header
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/turbot/steampipe-postgres-sys/cpp"
)

const (
	BackendBindgen = "bindgen"
	BackendCgo     = "cgo"
)

var ErrTranslatorFailed = errors.New("binding translation failed")

// Callbacks intercept translator events
type Callbacks struct {
	// WillParseMacro returns false for macros which must not be translated
	WillParseMacro func(name string) bool
	// IncludeFile is called for every file the umbrella header transitively includes
	IncludeFile func(path string)
}

func (c Callbacks) willParseMacro(name string) bool {
	if c.WillParseMacro == nil {
		return true
	}
	return c.WillParseMacro(name)
}

func (c Callbacks) includeFile(path string) {
	if c.IncludeFile != nil {
		c.IncludeFile(path)
	}
}

// Request describes a single translation
type Request struct {
	// Header is the umbrella header, the sole entry point
	Header string
	// IncludeDirs is the search path used to resolve includes
	IncludeDirs []string
	Callbacks   Callbacks
	// DeriveDefault requests default value implementations for generated structs
	DeriveDefault bool
}

// Translator turns a C header into binding source
type Translator interface {
	Name() string
	Translate(ctx context.Context, req Request) ([]byte, error)
}

// Options configures the translator backends
type Options struct {
	// Bindgen is the path of the bindgen executable
	Bindgen string
	// CC is the C compiler used for preprocessing
	CC string
	// GoPackage is the package name of cgo output
	GoPackage string
}

// New returns the translator for backend
func New(backend string, opts Options) (Translator, error) {
	preprocessor := cpp.New(opts.CC)
	switch backend {
	case BackendBindgen:
		return NewBindgen(opts.Bindgen, preprocessor), nil
	case BackendCgo:
		return NewCgo(opts.GoPackage, preprocessor), nil
	}
	return nil, fmt.Errorf("unknown translator backend '%s' (expected '%s' or '%s')", backend, BackendBindgen, BackendCgo)
}

// DefaultBindingsName returns the conventional output file name for backend
func DefaultBindingsName(backend string) string {
	if backend == BackendCgo {
		return "pg_sys.go"
	}
	return "bindings.rs"
}

// rejectedMacros returns the macros which the callbacks refuse to have translated
func rejectedMacros(macros []string, callbacks Callbacks) []string {
	var res []string
	for _, m := range macros {
		if !callbacks.willParseMacro(m) {
			res = append(res, m)
		}
	}
	return res
}

// forwardIncludes reports every dependency except the umbrella header itself
func forwardIncludes(deps []string, header string, callbacks Callbacks) int {
	var count int
	for _, d := range deps {
		if d == header {
			continue
		}
		callbacks.includeFile(d)
		count++
	}
	return count
}
