package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveRead(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, "report.pdf", []byte("contents"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", ref)

	data, err := store.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("contents"), data)
}

func TestLocalStoreStripsPathComponents(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd", ref)
}

func TestLocalStoreReadMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreReadRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "../outside.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreSizeCap(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "big.bin", []byte("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Save(context.Background(), "ok.bin", []byte("1234"))
	assert.NoError(t, err)
}
