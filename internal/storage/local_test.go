package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Put(ctx, "abc.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.wav"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))

	_, err = store.Put(ctx, "abc.wav", strings.NewReader("again"))
	assert.Error(t, err, "existing blobs are never overwritten")

	require.NoError(t, store.Delete(ctx, "abc.wav"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, "abc.wav"))
}

func TestLocalStore_RejectsPathNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../escape.wav", "a/b.wav"} {
		_, err := store.Put(context.Background(), name, strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Put(ctx, "late.wav", strings.NewReader("data"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(dir, "late.wav"))
	assert.True(t, os.IsNotExist(err), "partial blob must be removed")
}
