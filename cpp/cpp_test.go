package cpp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const macroOutput = `#define __STDC__ 1
#define FP_NAN 0
#define FP_INFINITE 1
#define Max(x,y) ((x) > (y) ? (x) : (y))
#define PG_VERSION_NUM 140003
#define  SPACED	2
#define FP_NAN 0
# 1 "wrapper.h"
`

func TestParseMacros(t *testing.T) {
	macros, err := ParseMacros([]byte(macroOutput))
	require.NoError(t, err)
	assert.Equal(t, []string{"FP_INFINITE", "FP_NAN", "Max", "PG_VERSION_NUM", "SPACED", "__STDC__"}, macros)
}

func TestParseMacrosLineTooLong(t *testing.T) {
	// a truncated list would leave later macros out of the blocklist
	output := "#define LONG " + strings.Repeat("x", 2*1024*1024) + "\n#define FP_NAN 0\n"
	_, err := ParseMacros([]byte(output))
	assert.Error(t, err)
}

func TestPreprocessorMacrosUnreadableOutput(t *testing.T) {
	p := New("")
	p.Run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("#define LONG " + strings.Repeat("x", 2*1024*1024) + "\n"), nil
	}
	_, err := p.Macros(context.Background(), "/out/wrapper.h", nil)
	assert.Error(t, err)
}

func TestPreprocessorMacros(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := New("ccache clang")
	p.Run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return []byte(macroOutput), nil
	}

	macros, err := p.Macros(context.Background(), "/out/wrapper.h", []string{"/pg/server"})
	require.NoError(t, err)
	assert.Contains(t, macros, "FP_NAN")
	assert.Equal(t, "ccache", gotName)
	assert.Equal(t, []string{"clang", "-x", "c", "-E", "-dM", "-I/pg/server", "/out/wrapper.h"}, gotArgs)
}

func TestPreprocessorDependencies(t *testing.T) {
	p := New("")
	assert.Equal(t, DefaultCC, p.CC)
	p.Run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "cc", name)
		assert.Equal(t, []string{"-x", "c", "-M", "-I/pg/server", "/out/wrapper.h"}, args)
		return []byte("wrapper.o: /out/wrapper.h /pg/server/postgres.h \\\n /pg/server/c.h /usr/include/math.h\n"), nil
	}

	deps, err := p.Dependencies(context.Background(), "/out/wrapper.h", []string{"/pg/server"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/pg/server/postgres.h", "/pg/server/c.h", "/usr/include/math.h"}, deps)
}

func TestPreprocessorFailure(t *testing.T) {
	p := New("cc")
	p.Run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("cc failed: exit status 1: wrapper.h:3:10: fatal error: 'gram.h' file not found")
	}

	_, err := p.Macros(context.Background(), "wrapper.h", nil)
	assert.Error(t, err)
	_, err = p.Dependencies(context.Background(), "wrapper.h", nil)
	assert.Error(t, err)
}

type depfileTest struct {
	input    string
	expected []string
	err      bool
}

var testCasesDepfile = map[string]depfileTest{
	"single line": {
		input:    "out.rs: a.h b.h\n",
		expected: []string{"a.h", "b.h"},
	},
	"continuations": {
		input:    "out.rs: a.h \\\n  b.h \\\n  c.h\n",
		expected: []string{"a.h", "b.h", "c.h"},
	},
	"crlf continuations": {
		input:    "out.rs: a.h \\\r\n  b.h\r\n",
		expected: []string{"a.h", "b.h"},
	},
	"escaped space": {
		input:    "out.rs: /Program\\ Files/pg/server/postgres.h\n",
		expected: []string{"/Program Files/pg/server/postgres.h"},
	},
	"escaped dollar and hash": {
		input:    "out.rs: a$$b.h c\\#d.h\n",
		expected: []string{"a$b.h", "c#d.h"},
	},
	"multiple rules de-duplicated": {
		input:    "out.rs: a.h b.h\nout.d: b.h c.h\n",
		expected: []string{"a.h", "b.h", "c.h"},
	},
	"windows drive letters": {
		input:    "C:\\out\\bindings.rs: C:\\pg\\server\\postgres.h\n",
		expected: []string{"C:\\pg\\server\\postgres.h"},
	},
	"empty prerequisites": {
		input: "out.rs:\n",
	},
	"comments and blank lines": {
		input:    "# generated\n\nout.rs: a.h\n",
		expected: []string{"a.h"},
	},
	"missing colon": {
		input: "out.rs a.h\n",
		err:   true,
	},
}

func TestParseDepfile(t *testing.T) {
	for name, test := range testCasesDepfile {
		t.Run(name, func(t *testing.T) {
			res, err := ParseDepfile(strings.NewReader(test.input))
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, res)
		})
	}
}
