package schemadex

import (
	"sort"
	"strings"
)

// Catalog is the merged, read-only set of entities produced by a build.
type Catalog struct {
	entities map[string]*Entity
	names    []string

	// Fingerprint identifies the source content the catalog was built from.
	Fingerprint string
}

// NewCatalog indexes the given entities. A later entity replaces an earlier
// one with the same name.
func NewCatalog(entities []*Entity) *Catalog {
	c := &Catalog{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if e == nil {
			continue
		}
		c.entities[e.Name] = e
	}
	c.names = SortNames(c.entities)
	return c
}

// Entity returns the named entity or nil.
func (c *Catalog) Entity(name string) *Entity {
	if c == nil {
		return nil
	}
	return c.entities[name]
}

// Names returns every entity name in listing order. The slice must not be modified.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Entities returns every entity in listing order.
func (c *Catalog) Entities() []*Entity {
	if c == nil {
		return nil
	}
	out := make([]*Entity, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.entities[name])
	}
	return out
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// SortNames orders names case-insensitively, with the global module table
// pinned first. Names equal ignoring case fall back to byte order so the
// result does not depend on map iteration.
func SortNames(entities map[string]*Entity) []string {
	names := make([]string, 0, len(entities))
	pinned := false
	for name := range entities {
		if name == GlobalModulesName {
			pinned = true
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	if pinned {
		names = append([]string{GlobalModulesName}, names...)
	}
	return names
}
