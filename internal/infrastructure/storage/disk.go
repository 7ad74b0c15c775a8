package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Disk stores uploaded files in a single directory that is also served
// statically. Stored paths are returned relative to the process working
// directory, e.g. "uploads/banner-1700000000000-<uuid>.png".
type Disk struct {
	dir string
	now func() time.Time
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &Disk{dir: dir, now: time.Now}, nil
}

// Dir is the directory files are written to.
func (d *Disk) Dir() string { return d.dir }

// Save copies the uploaded part to disk under a unique name derived from the
// form field and the original extension, and returns the stored path.
func (d *Disk) Save(field string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	name := d.fileName(field, fh.Filename)
	dst, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	return path.Join(filepath.ToSlash(d.dir), name), nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// storage directory are ignored.
func (d *Disk) Remove(stored string) error {
	if stored == "" {
		return nil
	}
	name := path.Base(stored)
	if path.Join(filepath.ToSlash(d.dir), name) != stored {
		return nil
	}
	if err := os.Remove(filepath.Join(d.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", stored, err)
	}
	return nil
}

func (d *Disk) fileName(field, original string) string {
	ext := strings.TrimPrefix(filepath.Ext(filepath.Base(original)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s-%d-%s.%s", field, d.now().UnixMilli(), uuid.NewString(), strings.ToLower(ext))
}
