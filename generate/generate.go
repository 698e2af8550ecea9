// Package generate runs the binding generation pipeline: resolve the include directory,
// enumerate the headers, write the umbrella header, translate it and write the bindings.
// Steps run strictly in sequence and any failure aborts the run
package generate

import (
	"context"
	"fmt"
	"log"

	"github.com/Masterminds/semver/v3"
	"github.com/gertd/go-pluralize"
	"github.com/spf13/afero"
	"github.com/turbot/steampipe-postgres-sys/depinfo"
	"github.com/turbot/steampipe-postgres-sys/headers"
	"github.com/turbot/steampipe-postgres-sys/instrument"
	"github.com/turbot/steampipe-postgres-sys/pgconfig"
	"github.com/turbot/steampipe-postgres-sys/settings"
	"github.com/turbot/steampipe-postgres-sys/translate"
	"github.com/turbot/steampipe-postgres-sys/umbrella"
	"github.com/turbot/steampipe-postgres-sys/utils"
	"go.opentelemetry.io/otel/attribute"
)

// Resolver looks up the PostgreSQL installation variables
type Resolver interface {
	Lookup(ctx context.Context) (pgconfig.Config, error)
}

// Generator wires the pipeline collaborators together
type Generator struct {
	Fs         afero.Fs
	Resolver   Resolver
	Translator translate.Translator
	Emitter    depinfo.Emitter
	Settings   *settings.GeneratorSettings

	pluralizer *pluralize.Client
}

func NewGenerator(fs afero.Fs, resolver Resolver, translator translate.Translator, emitter depinfo.Emitter, s *settings.GeneratorSettings) *Generator {
	return &Generator{
		Fs:         fs,
		Resolver:   resolver,
		Translator: translator,
		Emitter:    emitter,
		Settings:   s,
		pluralizer: pluralize.NewClient(),
	}
}

// Result summarises a generation run
type Result struct {
	IncludeDir      string
	Headers         []string
	UmbrellaPath    string
	UmbrellaChanged bool
	BindingsPath    string
	BindingsChanged bool
	Dependencies    []string
}

// Run executes the whole pipeline
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	ctx, span := instrument.StartSpan(ctx, "generate", attribute.String("backend", g.Translator.Name()))
	defer span.End()

	includeDir, hdrs, err := g.ListHeaders(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{
		IncludeDir:   includeDir,
		Headers:      hdrs,
		UmbrellaPath: g.Settings.UmbrellaPath(),
		BindingsPath: g.Settings.BindingsPath(),
	}

	res.UmbrellaChanged, err = g.writeUmbrella(ctx, res.UmbrellaPath, hdrs)
	if err != nil {
		return nil, err
	}

	bindings, err := g.translate(ctx, res.UmbrellaPath, includeDir)
	if err != nil {
		return nil, err
	}

	res.BindingsChanged, err = utils.WriteFileIfChanged(g.Fs, res.BindingsPath, bindings)
	if err != nil {
		return nil, fmt.Errorf("failed to write bindings: %w", err)
	}

	if err := g.Emitter.Close(); err != nil {
		return nil, err
	}
	res.Dependencies = g.Emitter.Files()

	log.Printf("[INFO] generated %s from %s (%s tracked), bindings changed: %v",
		res.BindingsPath,
		g.plural("header", len(res.Headers)),
		g.plural("dependency", len(res.Dependencies)),
		res.BindingsChanged)
	return res, nil
}

// ListHeaders resolves the server include directory and enumerates the headers the umbrella header will include
func (g *Generator) ListHeaders(ctx context.Context) (string, []string, error) {
	resolveCtx, span := instrument.StartSpan(ctx, "resolve")
	cfg, err := g.Resolver.Lookup(resolveCtx)
	span.End()
	if err != nil {
		return "", nil, err
	}
	includeDir, err := cfg.IncludeDirServer()
	if err != nil {
		return "", nil, err
	}

	filter, err := g.filter(cfg)
	if err != nil {
		return "", nil, err
	}

	_, span = instrument.StartSpan(ctx, "enumerate", attribute.String("include_dir", includeDir))
	defer span.End()
	hdrs, err := headers.Enumerate(g.Fs, includeDir, filter)
	if err != nil {
		return "", nil, err
	}
	span.SetAttributes(attribute.Int("headers", len(hdrs)))
	log.Printf("[INFO] found %s in %s", g.plural("header", len(hdrs)), includeDir)
	return includeDir, hdrs, nil
}

func (g *Generator) filter(cfg pgconfig.Config) (*headers.Filter, error) {
	denylist, err := headers.DefaultDenylist()
	if err != nil {
		return nil, err
	}

	mode := g.Settings.DenylistMode
	var pgVersion *semver.Version
	if mode == headers.DenylistVersioned {
		v, err := cfg.Version()
		if err != nil {
			return nil, fmt.Errorf("denylist mode '%s': %w", mode, err)
		}
		pgVersion = v
		log.Printf("[TRACE] applying denylist for PostgreSQL %s", v)
	}

	suffixes, err := denylist.Suffixes(mode, pgVersion)
	if err != nil {
		return nil, err
	}
	suffixes = append(suffixes, g.Settings.Exclude...)
	log.Printf("[TRACE] denylist has %s", g.plural("entry", len(suffixes)))
	return headers.NewFilter(suffixes), nil
}

func (g *Generator) writeUmbrella(ctx context.Context, path string, hdrs []string) (bool, error) {
	_, span := instrument.StartSpan(ctx, "umbrella", attribute.String("path", path))
	defer span.End()
	return umbrella.Write(g.Fs, path, g.Settings.RootHeader, hdrs)
}

func (g *Generator) translate(ctx context.Context, header, includeDir string) ([]byte, error) {
	ctx, span := instrument.StartSpan(ctx, "translate", attribute.String("translator", g.Translator.Name()))
	defer span.End()

	ignored := translate.NewMacroSet(g.Settings.IgnoredMacros()...)
	bindings, err := g.Translator.Translate(ctx, translate.Request{
		Header:      header,
		IncludeDirs: []string{includeDir},
		Callbacks: translate.Callbacks{
			WillParseMacro: ignored.WillParse,
			IncludeFile:    g.Emitter.IncludeFile,
		},
		DeriveDefault: g.Settings.DeriveDefault,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("bytes", len(bindings)))
	return bindings, nil
}

func (g *Generator) plural(word string, count int) string {
	if g.pluralizer == nil {
		g.pluralizer = pluralize.NewClient()
	}
	return g.pluralizer.Pluralize(word, count, true)
}
