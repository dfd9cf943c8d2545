package mock

import (
	"context"

	"github.com/fwojciec/schemadex"
)

var _ schemadex.SourceReader = (*SourceReader)(nil)

// SourceReader is a mock implementation of schemadex.SourceReader.
type SourceReader struct {
	ReadFileFn func(ctx context.Context, name string) (string, error)
}

func (r *SourceReader) ReadFile(ctx context.Context, name string) (string, error) {
	return r.ReadFileFn(ctx, name)
}
