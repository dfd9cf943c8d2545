package search

import (
	"sync/atomic"

	"github.com/fwojciec/schemadex"
)

// Ensure Live implements schemadex.Browser at compile time.
var _ schemadex.Browser = (*Live)(nil)

// Live serves queries from the most recently stored Index. Rebuilds produce
// a new catalog and a new Index, so a search never observes a catalog that
// is still being built.
type Live struct {
	current atomic.Pointer[Index]
}

// NewLive returns a Live serving idx.
func NewLive(idx *Index) *Live {
	l := &Live{}
	l.Store(idx)
	return l
}

// Store replaces the served index.
func (l *Live) Store(idx *Index) {
	l.current.Store(idx)
}

// Load returns the served index.
func (l *Live) Load() *Index {
	return l.current.Load()
}

func (l *Live) Search(query string) []string {
	return l.Load().Search(query)
}

func (l *Live) ListEntities(query string) []schemadex.ListItem {
	return l.Load().ListEntities(query)
}

func (l *Live) GetEntity(name string) *schemadex.Entity {
	return l.Load().GetEntity(name)
}
