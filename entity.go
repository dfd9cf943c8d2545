package schemadex

import "strings"

// Reserved names of synthetic entities. Brackets never occur in dumped class
// names, so these cannot collide with ordinary entities.
const (
	GlobalModulesName  = "[Global Modules]"
	SchemaRegistryName = "[Schema Registry]"
)

// Type names assigned to fields of synthetic entities.
const (
	ModuleTypeName  = "module"
	BuiltinTypeName = "builtin"
)

// GlobalTypesLabel is the list label for synthetic entities without a parent.
const GlobalTypesLabel = "Global Types"

// Entity represents a dumped class.
type Entity struct {
	Name    string   `json:"name"`
	Parent  string   `json:"parent,omitempty"`
	Fields  []Field  `json:"fields,omitempty"`  // in source order
	Methods []Method `json:"methods,omitempty"` // in source order
}

// Synthetic reports whether the entity was built from auxiliary data rather
// than taken from a class dump.
func (e *Entity) Synthetic() bool {
	return IsSyntheticName(e.Name)
}

// Field returns the named field or nil.
func (e *Entity) Field(name string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// HasGroupedFields reports whether any field is a grouped sub-table.
// Entities with grouped fields are shown as collapsible tables per field,
// others as a single name/offset table.
func (e *Entity) HasGroupedFields() bool {
	for i := range e.Fields {
		if e.Fields[i].Kind == FieldGrouped {
			return true
		}
	}
	return false
}

// SetField appends a field, or replaces an existing field of the same name in place.
func (e *Entity) SetField(f Field) {
	for i := range e.Fields {
		if e.Fields[i].Name == f.Name {
			e.Fields[i] = f
			return
		}
	}
	e.Fields = append(e.Fields, f)
}

// ParentLabel returns the label shown next to the entity in listings.
func (e *Entity) ParentLabel() string {
	if e.Parent == "" && e.Synthetic() {
		return GlobalTypesLabel
	}
	return e.Parent
}

// IsSyntheticName reports whether name is reserved for a synthetic entity.
func IsSyntheticName(name string) bool {
	return name == GlobalModulesName || name == SchemaRegistryName
}

// DisplayName strips the bracket decoration from reserved names.
func DisplayName(name string) string {
	if !IsSyntheticName(name) {
		return name
	}
	return strings.Trim(name, "[]")
}

// FieldKind distinguishes the two field shapes.
type FieldKind int

// Field kinds.
const (
	// FieldSimple is a member with a single offset value.
	FieldSimple FieldKind = iota
	// FieldGrouped is a sub-table of named offsets, such as one module's
	// entries in the global offsets file.
	FieldGrouped
)

// String returns the lower-case name of the kind.
func (k FieldKind) String() string {
	if k == FieldGrouped {
		return "grouped"
	}
	return "simple"
}

// Field is a named member of an Entity. Value is set for simple fields and
// Offsets for grouped ones; EnumValues may accompany either shape.
type Field struct {
	Name       string       `json:"name"`
	Kind       FieldKind    `json:"kind"`
	TypeName   string       `json:"typeName,omitempty"`
	Value      Value        `json:"value"`
	Offsets    []NamedValue `json:"offsets,omitempty"`
	EnumValues []NamedValue `json:"enumValues,omitempty"`
}

// NamedValue is one labelled entry of a grouped field or an enum.
type NamedValue struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Method is a dumped member function.
type Method struct {
	Name       string `json:"name"`
	ReturnType string `json:"returnType,omitempty"`
	Args       []Arg  `json:"args,omitempty"`
}

// DisplayReturnType returns the return type, defaulting to void.
func (m *Method) DisplayReturnType() string {
	if m.ReturnType == "" {
		return "void"
	}
	return m.ReturnType
}

// Signature joins the arguments as "type name" pairs.
func (m *Method) Signature() string {
	parts := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		typ := a.TypeName
		if typ == "" {
			typ = "?"
		}
		parts = append(parts, strings.TrimSpace(typ+" "+a.Name))
	}
	return strings.Join(parts, ", ")
}

// Arg is one method argument.
type Arg struct {
	TypeName string `json:"typeName,omitempty"`
	Name     string `json:"name,omitempty"`
}
