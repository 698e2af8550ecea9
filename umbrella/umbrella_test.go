package umbrella

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderTest struct {
	headers  []string
	expected string
}

var testCasesRender = map[string]renderTest{
	"no headers": {
		expected: "#include \"postgres.h\"\n",
	},
	"sorted headers": {
		headers: []string{"a.h", "m.h", "z.h"},
		expected: `#include "postgres.h"
#include "a.h"
#include "m.h"
#include "z.h"
`,
	},
	"root header enumerated": {
		headers: []string{"fmgr.h", "postgres.h", "postgres_ext.h"},
		expected: `#include "postgres.h"
#include "fmgr.h"
#include "postgres_ext.h"
`,
	},
	"duplicates": {
		headers: []string{"access/htup.h", "access/htup.h", "utils/rel.h"},
		expected: `#include "postgres.h"
#include "access/htup.h"
#include "utils/rel.h"
`,
	},
}

func TestRender(t *testing.T) {
	for name, test := range testCasesRender {
		got := string(Render(DefaultRootHeader, test.headers))
		if got != test.expected {
			t.Errorf("Test: '%s'' FAILED : \nexpected:\n%s\n\ngot:\n%s", name, test.expected, got)
		}
	}
}

func TestRenderRootFirst(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(string(Render("postgres.h", []string{"aaa.h", "0.h"}))), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `#include "postgres.h"`, lines[0])
}

func TestWriteDeterministic(t *testing.T) {
	fs := afero.NewMemMapFs()
	headers := []string{"access/htup.h", "fmgr.h", "utils/rel.h"}

	changed, err := Write(fs, "/out/wrapper.h", DefaultRootHeader, headers)
	require.NoError(t, err)
	assert.True(t, changed)
	first, err := afero.ReadFile(fs, "/out/wrapper.h")
	require.NoError(t, err)

	changed, err = Write(fs, "/out/wrapper.h", DefaultRootHeader, headers)
	require.NoError(t, err)
	assert.False(t, changed)
	second, err := afero.ReadFile(fs, "/out/wrapper.h")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := Write(fs, "/out/wrapper.h", DefaultRootHeader, []string{"a.h"})
	assert.Error(t, err)
}
