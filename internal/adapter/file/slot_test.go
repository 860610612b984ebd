package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_ReadMissingFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nested", "glicosmart.json"))
	require.NoError(t, err)

	data, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.DirExists(t, filepath.Dir(s.Path()))
}

func TestSlot_WriteReadClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "glicosmart.json"))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, []byte(`{"a":1}`)))
	require.NoError(t, s.Write(ctx, []byte(`{"b":2}`)))

	data, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
	assert.True(t, s.isOwn())

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx), "clearing twice is fine")
	data, err = s.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSlot_ForeignContentIsNotOwn(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "glicosmart.json"))
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, []byte(`{}`)))

	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"x":{}}`), 0o600))
	assert.False(t, s.isOwn())
}

func TestSlot_CanceledContext(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "glicosmart.json"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Write(ctx, []byte(`{}`)), context.Canceled)
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
