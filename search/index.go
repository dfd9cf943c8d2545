// Package search implements substring search over a schemadex.Catalog.
package search

import (
	"strings"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/bloom"
	"github.com/fwojciec/schemadex/lru"
)

// DefaultFalsePositiveRate sizes the per-entity trigram filters.
const DefaultFalsePositiveRate = 0.01

// Ensure Index implements schemadex.Browser at compile time.
var _ schemadex.Browser = (*Index)(nil)

// Index answers queries against one catalog. Lower-cased copies of every
// searchable string are prepared up front so that matching does no
// allocation per entity.
//
// An Index is not safe for concurrent use unless its cache is.
type Index struct {
	catalog   *schemadex.Catalog
	cache     schemadex.ResultCache
	prefilter bool
	docs      []document
}

// document holds the searchable strings of one entity, lower-cased.
type document struct {
	name     string
	lower    string
	registry bool
	fields   []fieldDoc
	filter   *bloom.TrigramFilter
}

type fieldDoc struct {
	name     string
	typeName string
	grouped  bool
	offsets  []string
	enums    []string
}

// Option configures an Index.
type Option func(*Index)

// WithCache sets the result cache. Defaults to an lru.Cache of lru.DefaultSize.
func WithCache(c schemadex.ResultCache) Option {
	return func(idx *Index) {
		idx.cache = c
	}
}

// WithPrefilter enables or disables the trigram prefilter. Enabled by default.
func WithPrefilter(enabled bool) Option {
	return func(idx *Index) {
		idx.prefilter = enabled
	}
}

// NewIndex prepares c for searching. The catalog must not change afterwards.
func NewIndex(c *schemadex.Catalog, opts ...Option) *Index {
	idx := &Index{
		catalog:   c,
		prefilter: true,
	}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.cache == nil {
		idx.cache = lru.NewCache(lru.DefaultSize)
	}

	names := c.Names()
	idx.docs = make([]document, 0, len(names))
	for _, name := range names {
		idx.docs = append(idx.docs, newDocument(c.Entity(name), idx.prefilter))
	}
	return idx
}

func newDocument(e *schemadex.Entity, prefilter bool) document {
	d := document{
		name:     e.Name,
		lower:    strings.ToLower(e.Name),
		registry: e.Name == schemadex.SchemaRegistryName,
		fields:   make([]fieldDoc, 0, len(e.Fields)),
	}
	texts := []string{d.lower}
	for _, f := range e.Fields {
		fd := fieldDoc{
			name:     strings.ToLower(f.Name),
			typeName: strings.ToLower(f.TypeName),
			grouped:  f.Kind == schemadex.FieldGrouped,
			offsets:  lowerNames(f.Offsets),
			enums:    lowerNames(f.EnumValues),
		}
		d.fields = append(d.fields, fd)
		texts = append(texts, fd.name, fd.typeName)
		texts = append(texts, fd.offsets...)
		texts = append(texts, fd.enums...)
	}
	if prefilter {
		d.filter = bloom.NewTrigramFilter(DefaultFalsePositiveRate, texts...)
	}
	return d
}

func lowerNames(values []schemadex.NamedValue) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v.Name)
	}
	return out
}

// Catalog returns the indexed catalog.
func (idx *Index) Catalog() *schemadex.Catalog {
	return idx.catalog
}

// Search returns the names of the entities matching query, in catalog
// order. Results are cached by normalized query; the returned slice must not
// be modified.
func (idx *Index) Search(query string) []string {
	q := schemadex.ParseQuery(query)
	key := q.Key()
	if names, ok := idx.cache.Get(key); ok {
		return names
	}
	names := idx.match(q)
	idx.cache.Put(key, names)
	return names
}

// ListEntities returns the matches of query with their list labels.
func (idx *Index) ListEntities(query string) []schemadex.ListItem {
	names := idx.Search(query)
	items := make([]schemadex.ListItem, 0, len(names))
	for _, name := range names {
		items = append(items, schemadex.ListItem{
			Name:        name,
			ParentLabel: idx.catalog.Entity(name).ParentLabel(),
		})
	}
	return items
}

// GetEntity returns the named entity or nil.
func (idx *Index) GetEntity(name string) *schemadex.Entity {
	return idx.catalog.Entity(name)
}

// FirstMatch returns the first result of a query with a non-empty term, the
// entry a browser selects automatically. It returns "" otherwise.
func (idx *Index) FirstMatch(query string) string {
	if schemadex.ParseQuery(query).Term == "" {
		return ""
	}
	names := idx.Search(query)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func (idx *Index) match(q schemadex.Query) []string {
	names := make([]string, 0)
	for i := range idx.docs {
		d := &idx.docs[i]
		if d.filter != nil && q.Term != "" && !d.filter.MayContain(q.Term) {
			continue
		}
		if d.matches(q) {
			names = append(names, d.name)
		}
	}
	return names
}

func (d *document) matches(q schemadex.Query) bool {
	switch q.Mode {
	case schemadex.ModeClass:
		return strings.Contains(d.lower, q.Term)
	case schemadex.ModeOffset:
		for i := range d.fields {
			if d.fields[i].grouped && anyContains(d.fields[i].offsets, q.Term) {
				return true
			}
		}
		return false
	case schemadex.ModeEnum:
		if !d.registry {
			return false
		}
		for i := range d.fields {
			if anyContains(d.fields[i].enums, q.Term) {
				return true
			}
		}
		return false
	}

	if strings.Contains(d.lower, q.Term) {
		return true
	}
	for i := range d.fields {
		f := &d.fields[i]
		if strings.Contains(f.name, q.Term) || (f.typeName != "" && strings.Contains(f.typeName, q.Term)) {
			return true
		}
		if f.grouped && (anyContains(f.offsets, q.Term) || anyContains(f.enums, q.Term)) {
			return true
		}
	}
	return false
}

func anyContains(values []string, term string) bool {
	for _, v := range values {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}
