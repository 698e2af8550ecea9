package settings

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/turbot/go-kit/helpers"
	"github.com/turbot/steampipe-postgres-sys/app_specific"
	"github.com/turbot/steampipe-postgres-sys/depinfo"
	"github.com/turbot/steampipe-postgres-sys/headers"
	"github.com/turbot/steampipe-postgres-sys/translate"
	"github.com/turbot/steampipe-postgres-sys/umbrella"
)

// ConfigFileName is the optional config file looked up in the working directory (pgsysgen.yaml)
const ConfigFileName = "pgsysgen"

const (
	defaultUmbrellaName = "wrapper.h"
	defaultLogLevel     = "warn"
)

// GeneratorSettings holds the resolved generator configuration
type GeneratorSettings struct {
	OutDir     string `mapstructure:"out-dir"`
	PgConfig   string `mapstructure:"pg-config"`
	IncludeDir string `mapstructure:"include-dir"`

	RootHeader   string `mapstructure:"root-header"`
	UmbrellaName string `mapstructure:"umbrella-name"`
	BindingsName string `mapstructure:"bindings-name"`

	Backend   string `mapstructure:"backend"`
	Bindgen   string `mapstructure:"bindgen"`
	CC        string `mapstructure:"cc"`
	GoPackage string `mapstructure:"go-package"`

	DepsFormat   depinfo.Format       `mapstructure:"deps-format"`
	DenylistMode headers.DenylistMode `mapstructure:"denylist-mode"`
	// Exclude holds extra denylist suffixes, applied whatever the PostgreSQL version
	Exclude []string `mapstructure:"exclude"`
	// IgnoreMacros holds macros to ignore on top of translate.DefaultIgnoredMacros
	IgnoreMacros  []string `mapstructure:"ignore-macro"`
	DeriveDefault bool     `mapstructure:"derive-default"`

	TraceFile string `mapstructure:"trace-file"`
	LogLevel  string `mapstructure:"log-level"`
}

// SetDefaults registers the default value of every setting
func SetDefaults(v *viper.Viper) {
	v.SetDefault(SettingKeyRootHeader, umbrella.DefaultRootHeader)
	v.SetDefault(SettingKeyUmbrellaName, defaultUmbrellaName)
	v.SetDefault(SettingKeyBackend, translate.BackendBindgen)
	v.SetDefault(SettingKeyBindgen, translate.DefaultBindgen)
	v.SetDefault(SettingKeyGoPackage, translate.DefaultGoPackage)
	v.SetDefault(SettingKeyDenylistMode, string(headers.DenylistUnconditional))
	v.SetDefault(SettingKeyDeriveDefault, true)
	v.SetDefault(SettingKeyLogLevel, defaultLogLevel)
}

// BindEnv binds settings to environment variables. The build tool's own variables
// (OUT_DIR, PG_CONFIG, CC) are honoured after the app specific ones
func BindEnv(v *viper.Viper) error {
	bindings := map[GeneratorSettingKey][]string{
		SettingKeyOutDir:       {app_specific.EnvOutDir, app_specific.EnvCargoOutDir},
		SettingKeyPgConfig:     {app_specific.EnvPgConfig, app_specific.EnvPgConfigTool},
		SettingKeyIncludeDir:   {app_specific.EnvIncludeDir},
		SettingKeyBackend:      {app_specific.EnvBackend},
		SettingKeyBindgen:      {app_specific.EnvBindgen},
		SettingKeyCC:           {app_specific.EnvCC, app_specific.EnvCCTool},
		SettingKeyDepsFormat:   {app_specific.EnvDepsFormat},
		SettingKeyDenylistMode: {app_specific.EnvDenylistMode},
		SettingKeyTraceFile:    {app_specific.EnvTraceFile},
		SettingKeyLogLevel:     {app_specific.EnvLogLevel},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

// ReadConfigFile reads pgsysgen.yaml from dir if present
func ReadConfigFile(v *viper.Viper, dir string) error {
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("[TRACE] no %s config file in %s", ConfigFileName, dir)
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	log.Printf("[INFO] using config file %s", v.ConfigFileUsed())
	return nil
}

// Load resolves the settings from v, filling backend dependent defaults, and validates them
func Load(v *viper.Viper, cargoOutDir bool) (*GeneratorSettings, error) {
	s := &GeneratorSettings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.BindingsName == "" {
		s.BindingsName = translate.DefaultBindingsName(s.Backend)
	}
	if s.DepsFormat == "" {
		s.DepsFormat = depinfo.DefaultFormat(cargoOutDir)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every invalid setting at once
func (s *GeneratorSettings) Validate() error {
	var errs []error
	if s.OutDir == "" {
		errs = append(errs, fmt.Errorf("%s is required (or set %s)", SettingKeyOutDir, app_specific.EnvOutDir))
	}
	if s.RootHeader == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", SettingKeyRootHeader))
	}
	for _, f := range []struct{ key, name string }{
		{SettingKeyUmbrellaName, s.UmbrellaName},
		{SettingKeyBindingsName, s.BindingsName},
	} {
		if f.name == "" || strings.ContainsAny(f.name, `/\`) {
			errs = append(errs, fmt.Errorf("%s must be a plain file name, got '%s'", f.key, f.name))
		}
	}
	if s.UmbrellaName != "" && s.UmbrellaName == s.BindingsName {
		errs = append(errs, fmt.Errorf("%s and %s must differ", SettingKeyUmbrellaName, SettingKeyBindingsName))
	}
	if !helpers.StringSliceContains([]string{translate.BackendBindgen, translate.BackendCgo}, s.Backend) {
		errs = append(errs, fmt.Errorf("invalid %s '%s' (expected '%s' or '%s')", SettingKeyBackend, s.Backend, translate.BackendBindgen, translate.BackendCgo))
	}
	if !helpers.StringSliceContains([]string{string(depinfo.FormatCargo), string(depinfo.FormatMake), string(depinfo.FormatNone)}, string(s.DepsFormat)) {
		errs = append(errs, fmt.Errorf("invalid %s '%s'", SettingKeyDepsFormat, s.DepsFormat))
	}
	if err := s.DenylistMode.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return helpers.CombineErrors(errs...)
	}
	return nil
}

// IgnoredMacros returns the default ignored macros plus any configured extras
func (s *GeneratorSettings) IgnoredMacros() []string {
	return append(append([]string{}, translate.DefaultIgnoredMacros...), s.IgnoreMacros...)
}

func (s *GeneratorSettings) UmbrellaPath() string {
	return filepath.Join(s.OutDir, s.UmbrellaName)
}

func (s *GeneratorSettings) BindingsPath() string {
	return filepath.Join(s.OutDir, s.BindingsName)
}

// DepfilePath is the bindings path with its extension replaced by .d
func (s *GeneratorSettings) DepfilePath() string {
	p := s.BindingsPath()
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".d"
}
