package schemadex

// Searcher resolves a query to entity names.
type Searcher interface {
	// Search returns the names of matching entities in listing order.
	// It never fails; an unmatched query returns an empty slice.
	Search(query string) []string
}

// ListItem is one row of an entity listing.
type ListItem struct {
	Name        string `json:"name"`
	ParentLabel string `json:"parentLabel"`
}

// Browser is what a presentation layer needs from the catalog.
type Browser interface {
	Searcher

	// ListEntities returns the matches of a query with their list labels.
	ListEntities(query string) []ListItem

	// GetEntity returns the named entity or nil.
	GetEntity(name string) *Entity
}

// ResultCache stores search results by normalized query key.
type ResultCache interface {
	Get(key string) ([]string, bool)

	// Put stores names under key. Implementations bound their size by
	// clearing everything once the bound is reached rather than evicting
	// single entries.
	Put(key string, names []string)

	Len() int
}
