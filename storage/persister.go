// Package storage persists the snapshots rebelctl takes of the browser
// state.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Persister writes files. It abstracts away the where and how of writing
// them.
type Persister interface {
	Persist(ctx context.Context, path string, data io.Reader) error
}

// LocalPersister writes files to the local disk. Relative paths are resolved
// against Dir, or the working directory when Dir is empty.
type LocalPersister struct {
	Dir string
}

var _ Persister = &LocalPersister{}

// Persist writes data to path. The file is replaced atomically, so readers
// never see a partially written snapshot.
func (l *LocalPersister) Persist(ctx context.Context, path string, data io.Reader) (err error) {
	cp := filepath.Clean(path)
	if !filepath.IsAbs(cp) && l.Dir != "" {
		cp = filepath.Join(l.Dir, cp)
	}

	dir := filepath.Dir(cp)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating local directory %q", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(cp)+".*")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file in %q", dir)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = io.Copy(f, contextReader{ctx, data}); err != nil {
		return errors.Wrapf(err, "writing %q", cp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", f.Name())
	}
	if err = os.Chmod(f.Name(), 0o600); err != nil {
		return errors.Wrapf(err, "setting mode of %q", f.Name())
	}

	return errors.Wrapf(os.Rename(f.Name(), cp), "renaming %q", f.Name())
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck
	}
	return c.r.Read(p) //nolint:wrapcheck
}
