// Package files persists uploaded blobs (cover images, novel PDFs) and hands
// back durable retrieval URLs. Deleting or listing objects is out of scope.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores blobs on disk under a base directory. Files are written to a
// temp file and renamed so a half-written upload is never served. The
// returned URL is baseURL + object name; the HTTP layer serves the directory.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, pathHint, contentType string, r io.Reader) (string, error) {
	name := objectName(pathHint)

	dst := filepath.Join(l.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "upload_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return "", err
	}

	return l.baseURL + "/" + name, nil
}

// Dir returns the storage directory so the router can serve it.
func (l *Local) Dir() string {
	return l.dir
}

// objectName builds a unique object name from a path hint like
// "covers/photo.jpg": the hint's directory and extension are kept, the base
// name is replaced with a UUID so uploads never collide.
func objectName(pathHint string) string {
	dir := path.Dir(pathHint)
	ext := path.Ext(pathHint)
	name := uuid.NewString() + ext
	if dir == "." || dir == "/" || dir == "" {
		return name
	}
	return dir + "/" + name
}
