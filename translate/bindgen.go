package translate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/turbot/steampipe-postgres-sys/cpp"
	"github.com/turbot/steampipe-postgres-sys/utils"
)

const DefaultBindgen = "bindgen"

// Bindgen runs the bindgen command line tool.
// bindgen has no macro callback on the command line, so the macros defined by the
// header are listed with the preprocessor and each rejected one is blocklisted
type Bindgen struct {
	Path         string
	Preprocessor *cpp.Preprocessor
	Run          utils.CommandRunner
}

func NewBindgen(path string, preprocessor *cpp.Preprocessor) *Bindgen {
	if path == "" {
		path = DefaultBindgen
	}
	return &Bindgen{
		Path:         path,
		Preprocessor: preprocessor,
		Run:          utils.RunCommand,
	}
}

func (b *Bindgen) Name() string {
	return BackendBindgen
}

func (b *Bindgen) Translate(ctx context.Context, req Request) ([]byte, error) {
	macros, err := b.Preprocessor.Macros(ctx, req.Header, req.IncludeDirs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
	}
	blocked := rejectedMacros(macros, req.Callbacks)
	log.Printf("[TRACE] bindgen blocklisting %d of %d macros", len(blocked), len(macros))

	tmpDir, err := os.MkdirTemp("", "pgsysgen-bindgen")
	if err != nil {
		return nil, fmt.Errorf("failed to create bindgen output directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPath := filepath.Join(tmpDir, "bindings.rs")
	depfilePath := filepath.Join(tmpDir, "bindings.d")

	if _, err := b.Run(ctx, b.Path, b.args(req, blocked, outputPath, depfilePath)...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
	}

	bindings, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: bindgen produced no output: %w", ErrTranslatorFailed, err)
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: bindgen produced empty output", ErrTranslatorFailed)
	}

	depfile, err := os.Open(depfilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: bindgen produced no depfile: %w", ErrTranslatorFailed, err)
	}
	defer depfile.Close()
	deps, err := cpp.ParseDepfile(depfile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslatorFailed, err)
	}
	count := forwardIncludes(deps, req.Header, req.Callbacks)
	log.Printf("[TRACE] bindgen generated %d bytes, %d included files", len(bindings), count)

	return bindings, nil
}

func (b *Bindgen) args(req Request, blocked []string, outputPath, depfilePath string) []string {
	args := []string{
		req.Header,
		"--output", outputPath,
		"--depfile", depfilePath,
	}
	if req.DeriveDefault {
		args = append(args, "--with-derive-default")
	}
	for _, m := range blocked {
		args = append(args, "--blocklist-item", "^"+regexp.QuoteMeta(m)+"$")
	}
	// everything after -- is passed to clang
	args = append(args, "--")
	args = append(args, cpp.IncludeArgs(req.IncludeDirs)...)
	return args
}
