package settings

type GeneratorSettingKey = string

const (
	SettingKeyOutDir        GeneratorSettingKey = "out-dir"
	SettingKeyPgConfig      GeneratorSettingKey = "pg-config"
	SettingKeyIncludeDir    GeneratorSettingKey = "include-dir"
	SettingKeyRootHeader    GeneratorSettingKey = "root-header"
	SettingKeyUmbrellaName  GeneratorSettingKey = "umbrella-name"
	SettingKeyBindingsName  GeneratorSettingKey = "bindings-name"
	SettingKeyBackend       GeneratorSettingKey = "backend"
	SettingKeyBindgen       GeneratorSettingKey = "bindgen"
	SettingKeyCC            GeneratorSettingKey = "cc"
	SettingKeyGoPackage     GeneratorSettingKey = "go-package"
	SettingKeyDepsFormat    GeneratorSettingKey = "deps-format"
	SettingKeyDenylistMode  GeneratorSettingKey = "denylist-mode"
	SettingKeyExclude       GeneratorSettingKey = "exclude"
	SettingKeyIgnoreMacro   GeneratorSettingKey = "ignore-macro"
	SettingKeyDeriveDefault GeneratorSettingKey = "derive-default"
	SettingKeyTraceFile     GeneratorSettingKey = "trace-file"
	SettingKeyLogLevel      GeneratorSettingKey = "log-level"
)
