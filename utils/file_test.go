package utils

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileIfChanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/out/nested/bindings.rs"

	changed, err := WriteFileIfChanged(fs, path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, changed, "new file should be written")

	// pin the mtime so we can tell whether the second write touched the file
	stamp := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes(path, stamp, stamp))

	changed, err = WriteFileIfChanged(fs, path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, changed, "identical content should not be rewritten")
	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))

	changed, err = WriteFileIfChanged(fs, path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, changed)
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestWriteFileIfChangedReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := WriteFileIfChanged(fs, "/out/wrapper.h", []byte("x"))
	assert.Error(t, err)
}
