package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/steampipe-postgres-sys/app_specific"
	"github.com/turbot/steampipe-postgres-sys/depinfo"
	"github.com/turbot/steampipe-postgres-sys/generate"
	"github.com/turbot/steampipe-postgres-sys/instrument"
	"github.com/turbot/steampipe-postgres-sys/pgconfig"
	"github.com/turbot/steampipe-postgres-sys/settings"
	"github.com/turbot/steampipe-postgres-sys/translate"
	"github.com/turbot/steampipe-postgres-sys/version"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pgsysgen",
		Short: "Generate bindings for the PostgreSQL server headers",
		Long: `pgsysgen locates the PostgreSQL server include directory with pg_config,
writes an umbrella header including every header that can be translated,
runs a binding translator over it and reports the headers the bindings depend on
to the build tool.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(generateCmd(), headersCmd(), versionCmd())
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the umbrella header, bindings and dependency information",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	addSettingFlags(cmd)
	return cmd
}

func headersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headers",
		Short: "List the headers the umbrella header would include",
		Args:  cobra.NoArgs,
		RunE:  runHeaders,
	}
	addSettingFlags(cmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func addSettingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(settings.SettingKeyOutDir, "", fmt.Sprintf("output directory (default $%s, then $%s)", app_specific.EnvOutDir, app_specific.EnvCargoOutDir))
	f.String(settings.SettingKeyPgConfig, "", fmt.Sprintf("path to pg_config (default $%s, then pg_config on PATH)", app_specific.EnvPgConfigTool))
	f.String(settings.SettingKeyIncludeDir, "", "server include directory, overrides pg_config")
	f.String(settings.SettingKeyRootHeader, "", "header included before all others (default postgres.h)")
	f.String(settings.SettingKeyUmbrellaName, "", "file name of the umbrella header (default wrapper.h)")
	f.String(settings.SettingKeyBindingsName, "", "file name of the bindings (default depends on backend)")
	f.String(settings.SettingKeyBackend, "", "translator backend: bindgen or cgo (default bindgen)")
	f.String(settings.SettingKeyBindgen, "", "path to the bindgen executable")
	f.String(settings.SettingKeyCC, "", fmt.Sprintf("C compiler used to preprocess headers (default $%s, then cc)", app_specific.EnvCCTool))
	f.String(settings.SettingKeyGoPackage, "", "package name of cgo bindings (default pgsys)")
	f.String(settings.SettingKeyDepsFormat, "", "dependency format: cargo, make or none (default cargo under cargo, otherwise make)")
	f.String(settings.SettingKeyDenylistMode, "", "denylist mode: unconditional or versioned (default unconditional)")
	f.StringSlice(settings.SettingKeyExclude, nil, "additional path suffix to exclude (repeatable)")
	f.StringSlice(settings.SettingKeyIgnoreMacro, nil, "additional macro to leave untranslated (repeatable)")
	f.Bool(settings.SettingKeyDeriveDefault, true, "request default value implementations for generated structs")
	f.String(settings.SettingKeyTraceFile, "", "write trace spans to this file")
	f.String(settings.SettingKeyLogLevel, "", "log level: trace, debug, info, warn or error (default warn)")
}

// loadSettings layers flags over env vars over the config file over defaults
func loadSettings(cmd *cobra.Command, configure func(v *viper.Viper)) (*settings.GeneratorSettings, error) {
	v := viper.New()
	settings.SetDefaults(v)
	if configure != nil {
		configure(v)
	}
	if err := settings.BindEnv(v); err != nil {
		return nil, err
	}
	// viper only prefers a flag over env vars and config when it was set explicitly
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := settings.ReadConfigFile(v, wd); err != nil {
		return nil, err
	}

	_, cargoOutDir := os.LookupEnv(app_specific.EnvCargoOutDir)
	s, err := settings.Load(v, cargoOutDir)
	if err != nil {
		return nil, err
	}
	setLogLevel(s.LogLevel)
	return s, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	shutdown, err := startTracing(s.TraceFile)
	if err != nil {
		return err
	}
	defer shutdown()

	fs := afero.NewOsFs()
	translator, err := translate.New(s.Backend, translate.Options{Bindgen: s.Bindgen, CC: s.CC, GoPackage: s.GoPackage})
	if err != nil {
		return err
	}
	emitter, err := depinfo.New(s.DepsFormat, depinfo.Options{
		Stdout:  cmd.OutOrStdout(),
		Fs:      fs,
		Depfile: s.DepfilePath(),
		Target:  s.BindingsPath(),
	})
	if err != nil {
		return err
	}

	g := generate.NewGenerator(fs, pgconfig.NewResolver(s.PgConfig, s.IncludeDir), translator, emitter, s)
	if _, err := g.Run(cmd.Context()); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	return nil
}

func runHeaders(cmd *cobra.Command, _ []string) error {
	// headers are only listed, nothing is written
	s, err := loadSettings(cmd, func(v *viper.Viper) {
		v.SetDefault(settings.SettingKeyOutDir, os.TempDir())
	})
	if err != nil {
		return err
	}

	g := generate.NewGenerator(afero.NewOsFs(), pgconfig.NewResolver(s.PgConfig, s.IncludeDir), nil, nil, s)
	_, hdrs, err := g.ListHeaders(cmd.Context())
	if err != nil {
		return err
	}
	for _, h := range hdrs {
		fmt.Fprintln(cmd.OutOrStdout(), h)
	}
	return nil
}

func startTracing(traceFile string) (func(), error) {
	if traceFile == "" {
		return func() {}, nil
	}
	f, err := os.Create(traceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	shutdownTracing, err := instrument.InitTracing(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("[WARN] failed to flush traces: %s", err)
		}
		f.Close()
	}, nil
}
