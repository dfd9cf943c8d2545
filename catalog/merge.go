package catalog

import (
	"log/slog"

	"github.com/fwojciec/schemadex"
)

// merger accumulates the entities of one build.
type merger struct {
	entities     map[string]*schemadex.Entity
	schemaEntity string
	logger       *slog.Logger
}

func newMerger(schemaEntity string, logger *slog.Logger) *merger {
	return &merger{
		entities:     make(map[string]*schemadex.Entity),
		schemaEntity: schemaEntity,
		logger:       logger,
	}
}

// apply merges one parsed file according to its role and returns the number
// of entities it wrote.
func (m *merger) apply(file schemadex.SourceFile, doc object) int {
	switch file.EffectiveRole() {
	case schemadex.RoleOffsets:
		return m.mergeOffsets(doc)
	case schemadex.RoleSchema:
		n := m.mergeClasses(file, doc)
		if m.publishSchema() {
			n++
		}
		return n
	default:
		return m.mergeClasses(file, doc)
	}
}

// mergeClasses copies the "classes" table of the document's first top-level
// value into the catalog. Whole entities are replaced; fields of an earlier
// definition are never kept.
func (m *merger) mergeClasses(file schemadex.SourceFile, doc object) int {
	if len(doc) == 0 {
		return 0
	}
	module, err := decodeObject(doc[0].Value)
	if err != nil {
		return 0
	}
	raw, ok := module.get("classes")
	if !ok {
		return 0
	}
	classes, err := decodeObject(raw)
	if err != nil {
		return 0
	}

	n := 0
	for _, c := range classes {
		if schemadex.IsSyntheticName(c.Key) {
			m.logger.Warn("reserved class name skipped", "file", file.Name, "class", c.Key)
			continue
		}
		m.entities[c.Key] = parseEntity(c.Key, c.Value)
		n++
	}
	return n
}

// mergeOffsets adds one grouped field per top-level key to the global module
// table, creating the table on first use.
func (m *merger) mergeOffsets(doc object) int {
	globals, ok := m.entities[schemadex.GlobalModulesName]
	if !ok {
		globals = &schemadex.Entity{Name: schemadex.GlobalModulesName}
		m.entities[schemadex.GlobalModulesName] = globals
	}
	for _, mod := range doc {
		globals.SetField(schemadex.Field{
			Name:     mod.Key,
			Kind:     schemadex.FieldGrouped,
			TypeName: schemadex.ModuleTypeName,
			Offsets:  namedValues(mod.Value),
		})
	}
	return 1
}

// publishSchema rebuilds the schema registry from the members of the
// configured built-in entity. The registry starts empty every time.
func (m *merger) publishSchema() bool {
	src, ok := m.entities[m.schemaEntity]
	if !ok || m.schemaEntity == "" {
		m.logger.Warn("schema entity not found", "entity", m.schemaEntity)
		return false
	}

	registry := &schemadex.Entity{
		Name:   schemadex.SchemaRegistryName,
		Fields: make([]schemadex.Field, 0, len(src.Fields)),
	}
	for _, f := range src.Fields {
		registry.Fields = append(registry.Fields, schemadex.Field{
			Name:       f.Name,
			Kind:       schemadex.FieldSimple,
			TypeName:   schemadex.BuiltinTypeName,
			Value:      f.Value,
			EnumValues: f.EnumValues,
		})
	}
	m.entities[schemadex.SchemaRegistryName] = registry
	return true
}

// catalog freezes the accumulated entities.
func (m *merger) catalog() *schemadex.Catalog {
	entities := make([]*schemadex.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		entities = append(entities, e)
	}
	return schemadex.NewCatalog(entities)
}
