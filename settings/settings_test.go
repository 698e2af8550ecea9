package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/steampipe-postgres-sys/depinfo"
	"github.com/turbot/steampipe-postgres-sys/headers"
	"github.com/turbot/steampipe-postgres-sys/translate"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := newViper(t)
	v.Set(SettingKeyOutDir, "/build/out")

	s, err := Load(v, false)
	require.NoError(t, err)

	assert.Equal(t, "postgres.h", s.RootHeader)
	assert.Equal(t, translate.BackendBindgen, s.Backend)
	assert.Equal(t, "bindings.rs", s.BindingsName)
	assert.Equal(t, depinfo.FormatMake, s.DepsFormat)
	assert.Equal(t, headers.DenylistUnconditional, s.DenylistMode)
	assert.True(t, s.DeriveDefault)

	assert.Equal(t, filepath.Join("/build/out", "wrapper.h"), s.UmbrellaPath())
	assert.Equal(t, filepath.Join("/build/out", "bindings.rs"), s.BindingsPath())
	assert.Equal(t, filepath.Join("/build/out", "bindings.d"), s.DepfilePath())
	assert.Equal(t, translate.DefaultIgnoredMacros, s.IgnoredMacros())
}

func TestLoadCgoBackend(t *testing.T) {
	v := newViper(t)
	v.Set(SettingKeyOutDir, "/build/out")
	v.Set(SettingKeyBackend, translate.BackendCgo)
	v.Set(SettingKeyIgnoreMacro, []string{"NAMEDATALEN"})

	s, err := Load(v, true)
	require.NoError(t, err)
	assert.Equal(t, "pg_sys.go", s.BindingsName)
	assert.Equal(t, depinfo.FormatCargo, s.DepsFormat)
	assert.Contains(t, s.IgnoredMacros(), "NAMEDATALEN")
	assert.Contains(t, s.IgnoredMacros(), "FP_NAN")
	// extras must not leak into the shared default list
	assert.NotContains(t, translate.DefaultIgnoredMacros, "NAMEDATALEN")
}

func TestLoadFromCargoEnv(t *testing.T) {
	t.Setenv("OUT_DIR", "/target/debug/build/pg-sys-1234/out")
	t.Setenv("PG_CONFIG", "/opt/pg/bin/pg_config")

	s, err := Load(newViper(t), true)
	require.NoError(t, err)
	assert.Equal(t, "/target/debug/build/pg-sys-1234/out", s.OutDir)
	assert.Equal(t, "/opt/pg/bin/pg_config", s.PgConfig)
}

func TestAppEnvTakesPrecedence(t *testing.T) {
	t.Setenv("OUT_DIR", "/cargo/out")
	t.Setenv("PGSYS_OUT_DIR", "/explicit/out")

	s, err := Load(newViper(t), true)
	require.NoError(t, err)
	assert.Equal(t, "/explicit/out", s.OutDir)
}

func TestValidate(t *testing.T) {
	t.Setenv("OUT_DIR", "")
	t.Setenv("PGSYS_OUT_DIR", "")

	v := newViper(t)
	v.Set(SettingKeyBackend, "swig")
	v.Set(SettingKeyBindingsName, "nested/bindings.rs")
	v.Set(SettingKeyDepsFormat, "ninja")
	v.Set(SettingKeyDenylistMode, "sometimes")

	_, err := Load(v, false)
	require.Error(t, err)
	for _, expected := range []string{SettingKeyOutDir, "swig", SettingKeyBindingsName, "ninja", "sometimes"} {
		assert.Contains(t, err.Error(), expected)
	}
}

func TestValidateSameNames(t *testing.T) {
	v := newViper(t)
	v.Set(SettingKeyOutDir, "/out")
	v.Set(SettingKeyBindingsName, "wrapper.h")
	_, err := Load(v, false)
	assert.Error(t, err)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pgsysgen.yaml"), []byte(`
out-dir: /from/config
backend: cgo
go-package: pg
exclude:
  - utils/guc_tables.h
`), 0o644))

	v := newViper(t)
	require.NoError(t, ReadConfigFile(v, dir))
	s, err := Load(v, false)
	require.NoError(t, err)
	assert.Equal(t, "/from/config", s.OutDir)
	assert.Equal(t, "pg", s.GoPackage)
	assert.Equal(t, []string{"utils/guc_tables.h"}, s.Exclude)
}

func TestReadConfigFileMissing(t *testing.T) {
	assert.NoError(t, ReadConfigFile(newViper(t), t.TempDir()))
}
