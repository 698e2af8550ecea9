package headers

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allDefaultSuffixes = []string{
	"be-gssapi-common.h",
	"rmgrlist.h",
	"pg_rusage.h",
	"kwlist.h",
	"gram.h",
	"wait.h",
	"hashutils.h",
	"jsonfuncs.h",
	"cmdtaglist.h",
	"pg_cast_d.h",
	"libstemmer",
	"fe_utils",
	"regex",
	"jit",
	"common",
}

func TestDefaultDenylistUnconditional(t *testing.T) {
	d, err := DefaultDenylist()
	require.NoError(t, err)

	suffixes, err := d.Suffixes(DenylistUnconditional, nil)
	require.NoError(t, err)
	assert.Equal(t, allDefaultSuffixes, suffixes)

	// the detected version makes no difference in unconditional mode
	suffixes, err = d.Suffixes(DenylistUnconditional, semver.MustParse("16.1"))
	require.NoError(t, err)
	assert.Equal(t, allDefaultSuffixes, suffixes)
}

type versionedDenylistTest struct {
	version  string
	included []string
	excluded []string
}

var testCasesVersionedDenylist = map[string]versionedDenylistTest{
	"v10": {
		version:  "10.23",
		included: []string{"pg_cast_d.h", "kwlist.h", "common"},
		excluded: []string{"wait.h", "jit", "be-gssapi-common.h"},
	},
	"v12": {
		version:  "12.4",
		included: []string{"be-gssapi-common.h", "regex"},
		excluded: []string{"pg_cast_d.h", "wait.h", "cmdtaglist.h"},
	},
	"v13": {
		version:  "13.11",
		included: []string{"be-gssapi-common.h", "wait.h", "hashutils.h", "jsonfuncs.h", "cmdtaglist.h", "jit"},
		excluded: []string{"pg_cast_d.h"},
	},
	"v14": {
		version:  "14.3",
		included: []string{"rmgrlist.h", "libstemmer", "fe_utils"},
		excluded: []string{"be-gssapi-common.h", "wait.h", "jit"},
	},
}

func TestDefaultDenylistVersioned(t *testing.T) {
	d, err := DefaultDenylist()
	require.NoError(t, err)

	for name, test := range testCasesVersionedDenylist {
		t.Run(name, func(t *testing.T) {
			suffixes, err := d.Suffixes(DenylistVersioned, semver.MustParse(test.version))
			require.NoError(t, err)
			for _, s := range test.included {
				assert.Contains(t, suffixes, s)
			}
			for _, s := range test.excluded {
				assert.NotContains(t, suffixes, s)
			}
		})
	}
}

func TestVersionedModeRequiresVersion(t *testing.T) {
	d, err := DefaultDenylist()
	require.NoError(t, err)
	_, err = d.Suffixes(DenylistVersioned, nil)
	assert.Error(t, err)
}

func TestInvalidMode(t *testing.T) {
	d, err := DefaultDenylist()
	require.NoError(t, err)
	_, err = d.Suffixes(DenylistMode("sometimes"), nil)
	assert.Error(t, err)
}

func TestParseDenylistErrors(t *testing.T) {
	_, err := ParseDenylist([]byte(`
files:
  - path: ok.h
    versions: "not a constraint"
  - path: ""
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ok.h")

	_, err = ParseDenylist([]byte("files: [unterminated"))
	assert.Error(t, err)
}

func TestParseDenylistNoVersions(t *testing.T) {
	d, err := ParseDenylist([]byte(`
directories:
  - path: /contrib/
`))
	require.NoError(t, err)
	suffixes, err := d.Suffixes(DenylistVersioned, semver.MustParse("15.0"))
	require.NoError(t, err)
	assert.Equal(t, []string{"contrib"}, suffixes)
}
