// Package depinfo reports the files a generation step depends on, in the vocabulary
// of the build tool driving the generator, so the build re-runs generation when any of them change
package depinfo

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/afero"
	"github.com/turbot/steampipe-postgres-sys/utils"
)

// Format is a build tool dependency vocabulary
type Format string

const (
	// FormatCargo prints cargo:rerun-if-changed directives
	FormatCargo Format = "cargo"
	// FormatMake writes a make style depfile
	FormatMake Format = "make"
	// FormatNone only logs
	FormatNone Format = "none"
)

var ErrUnknownFormat = errors.New("unknown dependency format")

// Emitter receives every file the generated bindings depend on
type Emitter interface {
	IncludeFile(path string)
	// Files returns the distinct files reported so far, in first-seen order
	Files() []string
	Close() error
}

// Options configures an Emitter
type Options struct {
	// Stdout receives cargo directives
	Stdout io.Writer
	Fs     afero.Fs
	// Depfile is the path of the make depfile
	Depfile string
	// Target is the make rule target, normally the bindings file
	Target string
}

// New returns the emitter for format
func New(format Format, opts Options) (Emitter, error) {
	switch format {
	case FormatCargo:
		if opts.Stdout == nil {
			return nil, fmt.Errorf("%s dependency format requires an output stream", format)
		}
		return &cargoEmitter{w: opts.Stdout}, nil
	case FormatMake:
		if opts.Fs == nil || opts.Depfile == "" || opts.Target == "" {
			return nil, fmt.Errorf("%s dependency format requires a depfile path and target", format)
		}
		return &makeEmitter{fs: opts.Fs, path: opts.Depfile, target: opts.Target}, nil
	case FormatNone:
		return &logEmitter{}, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownFormat, format)
}

// DefaultFormat picks the cargo vocabulary when running under cargo (OUT_DIR is set) and make otherwise
func DefaultFormat(outDirFromCargo bool) Format {
	if outDirFromCargo {
		return FormatCargo
	}
	return FormatMake
}

// dedup tracks the distinct files seen
type dedup struct {
	files []string
	seen  map[string]struct{}
}

func (d *dedup) add(path string) bool {
	if d.seen == nil {
		d.seen = map[string]struct{}{}
	}
	if _, ok := d.seen[path]; ok || path == "" {
		return false
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
	return true
}

func (d *dedup) Files() []string {
	return d.files
}

type cargoEmitter struct {
	dedup
	w   io.Writer
	err error
}

func (e *cargoEmitter) IncludeFile(path string) {
	if !e.add(path) || e.err != nil {
		return
	}
	// keep the first write error, it is reported by Close
	_, e.err = fmt.Fprintf(e.w, "cargo:rerun-if-changed=%s\n", path)
}

func (e *cargoEmitter) Close() error {
	if e.err != nil {
		return fmt.Errorf("failed to write cargo directives: %w", e.err)
	}
	return nil
}

type makeEmitter struct {
	dedup
	fs     afero.Fs
	path   string
	target string
}

func (e *makeEmitter) IncludeFile(path string) {
	e.add(path)
}

func (e *makeEmitter) Close() error {
	if _, err := utils.WriteFileIfChanged(e.fs, e.path, RenderDepfile(e.target, e.files)); err != nil {
		return fmt.Errorf("failed to write depfile: %w", err)
	}
	return nil
}

type logEmitter struct {
	dedup
}

func (e *logEmitter) IncludeFile(path string) {
	if e.add(path) {
		log.Printf("[TRACE] dependency %s", path)
	}
}

func (e *logEmitter) Close() error {
	return nil
}

// RenderDepfile renders a make rule with one prerequisite per line
func RenderDepfile(target string, deps []string) []byte {
	var b strings.Builder
	b.WriteString(escapeMake(target))
	b.WriteString(":")
	for _, d := range deps {
		b.WriteString(" \\\n  ")
		b.WriteString(escapeMake(d))
	}
	b.WriteString("\n")
	return []byte(b.String())
}

func escapeMake(s string) string {
	return strings.NewReplacer(" ", "\\ ", "#", "\\#", "$", "$$").Replace(s)
}
