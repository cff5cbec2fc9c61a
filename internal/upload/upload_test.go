package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLocal(t *testing.T) {
	dir := t.TempDir()
	u := New(NewLocalBackend(dir))

	got, err := u.Store(context.Background(), "http://example.com/", "../My Report.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "My_Report.pdf", got.Name)
	assert.Equal(t, int64(len("pdf bytes")), got.Size)
	assert.Equal(t, "http://example.com/static/uploads/My_Report.pdf", got.URL)

	b, err := os.ReadFile(filepath.Join(dir, "My_Report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(b))
}

func TestStoreOverwritesSameName(t *testing.T) {
	dir := t.TempDir()
	u := New(NewLocalBackend(dir))
	ctx := context.Background()

	first, err := u.Store(ctx, "http://h", "a.txt", strings.NewReader("first version"))
	require.NoError(t, err)
	second, err := u.Store(ctx, "http://h", "a.txt", strings.NewReader("second"))
	require.NoError(t, err)

	assert.Equal(t, first.URL, second.URL)
	b, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestStoreRejectsEmptyBody(t *testing.T) {
	dir := t.TempDir()
	u := New(NewLocalBackend(dir))

	_, err := u.Store(context.Background(), "http://h", "a.txt", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyUpload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreRejectsUnusableName(t *testing.T) {
	u := New(NewLocalBackend(t.TempDir()))
	_, err := u.Store(context.Background(), "http://h", "../..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

type failingBackend struct{ err error }

func (f failingBackend) Put(context.Context, string, io.Reader) (int64, error) { return 0, f.err }
func (f failingBackend) URL(base, key string) string                           { return base + "/" + key }

func TestStoreBackendError(t *testing.T) {
	boom := errors.New("disk full")
	u := New(failingBackend{err: boom})
	_, err := u.Store(context.Background(), "http://h", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}

func TestLocalBackendURLEscapes(t *testing.T) {
	l := NewLocalBackend("unused")
	assert.Equal(t, "https://qr.example/static/uploads/a%20b.txt", l.URL("https://qr.example", "a b.txt"))
}
