package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyUpload     = errors.New("uploaded file is empty")
	ErrInvalidFilename = errors.New("invalid upload filename")
)

// Backend persists uploaded bytes under a key and knows how clients fetch them back.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	URL(base, key string) string
}

// Stored is the outcome of a successful upload.
type Stored struct {
	Name string
	Size int64
	URL  string
}

type Uploader struct {
	backend Backend
}

func New(b Backend) *Uploader {
	return &Uploader{backend: b}
}

// Store sanitizes filename and writes r under it, replacing any previous
// upload with the same sanitized name. base is the public URL prefix of
// this server and is ignored by backends that serve objects themselves.
func (u *Uploader) Store(ctx context.Context, base, filename string, r io.Reader) (Stored, error) {
	name := SecureFilename(filename)
	if name == "" {
		return Stored{}, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return Stored{}, ErrEmptyUpload
		}
		return Stored{}, err
	}
	n, err := u.backend.Put(ctx, name, br)
	if err != nil {
		return Stored{}, fmt.Errorf("store upload %s: %w", name, err)
	}
	log.Ctx(ctx).Info().
		Str("file_name", filename).
		Str("stored_file", name).
		Int64("written_size", n).
		Msg("file uploaded")
	return Stored{Name: name, Size: n, URL: u.backend.URL(base, name)}, nil
}

// LocalBackend keeps uploads in a directory served under /static/uploads/.
type LocalBackend struct {
	Dir string
}

func NewLocalBackend(dir string) *LocalBackend {
	return &LocalBackend{Dir: dir}
}

func (l *LocalBackend) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if !fs.ValidPath(key) || strings.Contains(key, "/") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, key)
	}
	f, err := os.OpenFile(filepath.Join(l.Dir, key), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, err
	}
	return n, f.Close()
}

func (l *LocalBackend) URL(base, key string) string {
	return strings.TrimRight(base, "/") + "/static/uploads/" + url.PathEscape(key)
}
