package mock

import (
	"github.com/fwojciec/schemadex"
)

var (
	_ schemadex.Searcher    = (*Searcher)(nil)
	_ schemadex.Browser     = (*Browser)(nil)
	_ schemadex.ResultCache = (*ResultCache)(nil)
)

// Searcher is a mock implementation of schemadex.Searcher.
type Searcher struct {
	SearchFn func(query string) []string
}

func (s *Searcher) Search(query string) []string {
	return s.SearchFn(query)
}

// Browser is a mock implementation of schemadex.Browser.
type Browser struct {
	SearchFn       func(query string) []string
	ListEntitiesFn func(query string) []schemadex.ListItem
	GetEntityFn    func(name string) *schemadex.Entity
}

func (b *Browser) Search(query string) []string {
	return b.SearchFn(query)
}

func (b *Browser) ListEntities(query string) []schemadex.ListItem {
	return b.ListEntitiesFn(query)
}

func (b *Browser) GetEntity(name string) *schemadex.Entity {
	return b.GetEntityFn(name)
}

// ResultCache is a mock implementation of schemadex.ResultCache.
type ResultCache struct {
	GetFn func(key string) ([]string, bool)
	PutFn func(key string, names []string)
	LenFn func() int
}

func (c *ResultCache) Get(key string) ([]string, bool) {
	return c.GetFn(key)
}

func (c *ResultCache) Put(key string, names []string) {
	c.PutFn(key, names)
}

func (c *ResultCache) Len() int {
	return c.LenFn()
}
