package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

// Local stores blobs as flat files in one shared directory, named by their
// reference. The directory is append-mostly: writers never reuse a
// reference, so same-key write races are impossible.
type Local struct {
	dir string
}

var _ Store = (*Local)(nil)

// NewLocal builds a filesystem blob store rooted at dir, creating it if
// needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, &errs.ErrStorage{Op: "mkdir photos directory", Sub: err}
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Store(ctx context.Context, r io.Reader, originalFilename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := NewRef(originalFilename)

	// Write to a temporary file then rename, so a crash mid-write leaves no
	// half-written blob visible under the reference.
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", &errs.ErrStorage{Op: "create blob", Sub: err}
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", &errs.ErrStorage{Op: "write blob", Sub: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &errs.ErrStorage{Op: "close blob", Sub: err}
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.dir, ref)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &errs.ErrStorage{Op: "publish blob", Sub: err}
	}
	return ref, nil
}

func (l *Local) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidateRef(ref) {
		return nil, &errs.ErrBlobExist{Ref: ref, Exist: false}
	}
	f, err := os.Open(filepath.Join(l.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.ErrBlobExist{Ref: ref, Exist: false}
		}
		return nil, &errs.ErrStorage{Op: "open blob", Sub: err}
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidateRef(ref) {
		// An illegal reference cannot name a blob, so there is nothing to
		// delete.
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, ref)); err != nil && !os.IsNotExist(err) {
		return &errs.ErrStorage{Op: "delete blob", Sub: err}
	}
	return nil
}
