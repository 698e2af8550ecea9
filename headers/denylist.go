package headers

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/turbot/go-kit/helpers"
	"gopkg.in/yaml.v3"
)

//go:embed denylist.yaml
var defaultDenylistYAML []byte

// DenylistMode controls how version annotations on denylist entries are used
type DenylistMode string

const (
	// DenylistUnconditional applies every entry regardless of the detected PostgreSQL version
	DenylistUnconditional DenylistMode = "unconditional"
	// DenylistVersioned applies only the entries whose constraint matches the detected version
	DenylistVersioned DenylistMode = "versioned"
)

func (m DenylistMode) Validate() error {
	switch m {
	case DenylistUnconditional, DenylistVersioned:
		return nil
	}
	return fmt.Errorf("invalid denylist mode '%s' (expected '%s' or '%s')", m, DenylistUnconditional, DenylistVersioned)
}

// DenylistEntry is a path suffix which is excluded from the umbrella header
type DenylistEntry struct {
	Path     string `yaml:"path"`
	Versions string `yaml:"versions"`

	constraint *semver.Constraints
}

// Matches returns whether the entry applies to PostgreSQL version v
func (e DenylistEntry) Matches(v *semver.Version) bool {
	if e.constraint == nil {
		return true
	}
	return e.constraint.Check(v)
}

// Denylist is the versioned set of headers and directories that cannot be translated
type Denylist struct {
	Files       []DenylistEntry `yaml:"files"`
	Directories []DenylistEntry `yaml:"directories"`
}

// DefaultDenylist returns the denylist shipped with the generator
func DefaultDenylist() (*Denylist, error) {
	return ParseDenylist(defaultDenylistYAML)
}

// ParseDenylist parses a YAML denylist document and compiles its version constraints
func ParseDenylist(data []byte) (*Denylist, error) {
	d := &Denylist{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse denylist: %w", err)
	}

	var errs []error
	for _, entries := range [][]DenylistEntry{d.Files, d.Directories} {
		for i := range entries {
			if err := entries[i].compile(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, helpers.CombineErrors(errs...)
	}
	return d, nil
}

func (e *DenylistEntry) compile() error {
	e.Path = strings.Trim(e.Path, "/")
	if e.Path == "" {
		return fmt.Errorf("denylist entry has an empty path")
	}
	if e.Versions == "" {
		return nil
	}
	c, err := semver.NewConstraint(e.Versions)
	if err != nil {
		return fmt.Errorf("denylist entry '%s' has invalid versions '%s': %w", e.Path, e.Versions, err)
	}
	e.constraint = c
	return nil
}

// Suffixes returns the path suffixes to exclude.
// In DenylistUnconditional mode version is ignored and may be nil
func (d *Denylist) Suffixes(mode DenylistMode, version *semver.Version) ([]string, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if mode == DenylistVersioned && version == nil {
		return nil, fmt.Errorf("denylist mode '%s' requires the PostgreSQL version", mode)
	}

	var res []string
	for _, entries := range [][]DenylistEntry{d.Files, d.Directories} {
		for _, e := range entries {
			if mode == DenylistVersioned && !e.Matches(version) {
				continue
			}
			res = append(res, e.Path)
		}
	}
	return res, nil
}
