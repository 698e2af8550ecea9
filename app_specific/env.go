package app_specific

// app specific env vars
var EnvOutDir,
	EnvPgConfig,
	EnvIncludeDir,
	EnvBackend,
	EnvBindgen,
	EnvCC,
	EnvDepsFormat,
	EnvDenylistMode,
	EnvTraceFile,
	EnvLogLevel string

// EnvAppPrefix is the prefix for all app specific environment variables (e.g. "PGSYS_")
var EnvAppPrefix string

// env vars defined by the build tools the generator runs under
const (
	// EnvCargoOutDir is set by cargo for build scripts
	EnvCargoOutDir  = "OUT_DIR"
	EnvPgConfigTool = "PG_CONFIG"
	EnvCCTool       = "CC"
)

func init() {
	SetAppSpecificEnvVarKeys("PGSYS_")
}

func SetAppSpecificEnvVarKeys(envAppPrefix string) {
	// set prefix
	EnvAppPrefix = envAppPrefix

	EnvOutDir = buildEnv("OUT_DIR")
	EnvPgConfig = buildEnv("PG_CONFIG")
	EnvIncludeDir = buildEnv("INCLUDE_DIR")
	EnvBackend = buildEnv("BACKEND")
	EnvBindgen = buildEnv("BINDGEN")
	EnvCC = buildEnv("CC")
	EnvDepsFormat = buildEnv("DEPS_FORMAT")
	EnvDenylistMode = buildEnv("DENYLIST_MODE")
	EnvTraceFile = buildEnv("TRACE_FILE")
	EnvLogLevel = buildEnv("LOG_LEVEL")
}

// buildEnv is a function to construct an application specific env var key
func buildEnv(suffix string) string {
	return EnvAppPrefix + suffix
}
