package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes uploaded files to a directory on disk. Documents
// store only the bare generated filename; the absolute path exists
// solely inside this package and the static route that serves the
// directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns a
// store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name of the form
// <field>-<unixmilli><ext> and returns that name.
func (s *LocalStore) Save(fh *multipart.FileHeader, field string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%d%s", field, time.Now().UnixMilli(), filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file by name. Missing files are not an
// error. The name is reduced to its base so a stored reference can
// never escape the upload directory.
func (s *LocalStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
