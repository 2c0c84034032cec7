package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return storage
}

func TestLocalStorageRoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	err := storage.Save(ctx, "files/1700000000_report.pdf", strings.NewReader("payload"))
	require.NoError(t, err)

	exists, err := storage.Exists(ctx, "files/1700000000_report.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := storage.Open(ctx, "files/1700000000_report.pdf")
	require.NoError(t, err)
	defer reader.Close()

	contents, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	err := storage.Save(ctx, "files/doomed.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, "files/doomed.txt"))

	// A second delete of the same path must not fail.
	require.NoError(t, storage.Delete(ctx, "files/doomed.txt"))

	exists, err := storage.Exists(ctx, "files/doomed.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageList(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "files/a.txt", strings.NewReader("a")))
	require.NoError(t, storage.Save(ctx, "contacts/b.jpg", strings.NewReader("b")))

	all, err := storage.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"files/a.txt", "contacts/b.jpg"}, all)

	scoped, err := storage.List(ctx, "files")
	require.NoError(t, err)
	assert.Equal(t, []string{"files/a.txt"}, scoped)
}

func TestLocalStorageTraversalGuard(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// Escaping paths are cleaned back inside the base directory.
	err := storage.Save(ctx, "../outside.txt", strings.NewReader("x"))
	require.NoError(t, err)

	exists, err := storage.Exists(ctx, "outside.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageResolveURL(t *testing.T) {
	storage := newTestStorage(t)

	url, err := storage.ResolveURL(context.Background(), "files/1700000000_report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/storage/files/1700000000_report.pdf", url)
}
