// Package fs provides local filesystem access to dump files.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/schemadex"
)

// Ensure Reader implements schemadex.SourceReader at compile time.
var _ schemadex.SourceReader = (*Reader)(nil)

// Reader reads dump files from a local directory.
type Reader struct {
	dir string
}

// NewReader creates a Reader rooted at dir.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// Dir returns the directory the reader is rooted at.
func (r *Reader) Dir() string {
	return r.dir
}

// ReadFile returns the contents of dir/name. Names must stay inside dir.
func (r *Reader) ReadFile(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: %v", name, err)
	}
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: path escapes source directory", name)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, rel))
	if err != nil {
		return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: %v", name, err)
	}
	return string(data), nil
}

// ListFiles returns the names of the .json files directly inside dir, sorted.
func (r *Reader) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: %v", r.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
