// Package pgconfig resolves the installation variables of a PostgreSQL build by running pg_config
package pgconfig

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/turbot/steampipe-postgres-sys/utils"
)

const (
	DefaultPgConfig = "pg_config"

	KeyIncludeDirServer = "INCLUDEDIR-SERVER"
	KeyVersion          = "VERSION"
)

var (
	ErrNoIncludeDir = errors.New("pg_config did not report a server include directory")
	ErrNoVersion    = errors.New("pg_config did not report a version")
)

// matches the numeric part of "PostgreSQL 14.3 (Homebrew)" or "PostgreSQL 16beta1"
var versionRegex = regexp.MustCompile(`(\d+)(?:\.(\d+))?`)

// Config is the set of variables reported by pg_config, keyed by variable name (e.g. INCLUDEDIR-SERVER)
type Config map[string]string

// IncludeDirServer returns the server-side include directory
func (c Config) IncludeDirServer() (string, error) {
	dir := c[KeyIncludeDirServer]
	if dir == "" {
		return "", ErrNoIncludeDir
	}
	return dir, nil
}

// Version returns the PostgreSQL version as major.minor, with any prerelease suffix dropped
func (c Config) Version() (*semver.Version, error) {
	return ParseVersion(c[KeyVersion])
}

// ParseVersion parses the VERSION string reported by pg_config
func ParseVersion(s string) (*semver.Version, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrNoVersion
	}
	match := versionRegex.FindStringSubmatch(s)
	if match == nil {
		return nil, fmt.Errorf("unrecognised PostgreSQL version '%s'", s)
	}
	minor := match[2]
	if minor == "" {
		minor = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s", match[1], minor))
	if err != nil {
		return nil, fmt.Errorf("unrecognised PostgreSQL version '%s': %w", s, err)
	}
	return v, nil
}

// Parse reads the "KEY = value" lines printed by pg_config when run without arguments
func Parse(output []byte) (Config, error) {
	res := make(Config)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), " = ")
		if !found {
			continue
		}
		res[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pg_config output: %w", err)
	}
	return res, nil
}

// Resolver runs pg_config to discover the installation
type Resolver struct {
	// path to the pg_config binary
	PgConfig   string
	// if set, this is returned as INCLUDEDIR-SERVER; pg_config still runs for the
	// other variables but its failure is only a warning
	IncludeDir string
	Run        utils.CommandRunner
}

func NewResolver(pgConfig, includeDir string) *Resolver {
	if pgConfig == "" {
		pgConfig = DefaultPgConfig
	}
	return &Resolver{
		PgConfig:   pgConfig,
		IncludeDir: includeDir,
		Run:        utils.RunCommand,
	}
}

// Lookup returns the pg_config variables. If an include directory override is set,
// pg_config is only consulted on a best effort basis for the version
func (r *Resolver) Lookup(ctx context.Context) (Config, error) {
	output, err := r.Run(ctx, r.PgConfig)
	if err != nil {
		if r.IncludeDir == "" {
			return nil, fmt.Errorf("failed to run pg_config: %w", err)
		}
		log.Printf("[WARN] pg_config unavailable, using include dir override only: %s", err)
		return Config{KeyIncludeDirServer: r.IncludeDir}, nil
	}

	res, err := Parse(output)
	if err != nil {
		return nil, err
	}
	if r.IncludeDir != "" {
		res[KeyIncludeDirServer] = r.IncludeDir
	}
	log.Printf("[TRACE] pg_config reported %d variables, %s=%s", len(res), KeyIncludeDirServer, res[KeyIncludeDirServer])
	return res, nil
}
