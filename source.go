package schemadex

import (
	"context"
	"strings"
)

// SourceReader retrieves the raw text of one logical dump file.
type SourceReader interface {
	// ReadFile returns the contents of the named file.
	// Returns EUNAVAILABLE if the file cannot be retrieved for any reason.
	ReadFile(ctx context.Context, name string) (string, error)
}

// Role selects how a parsed file is merged into the catalog.
type Role string

// Merge roles.
const (
	// RoleClasses merges the "classes" table of the file's single top-level
	// module into the catalog.
	RoleClasses Role = "classes"
	// RoleOffsets turns every top-level key into a grouped field of the
	// global module table.
	RoleOffsets Role = "offsets"
	// RoleSchema merges classes like RoleClasses and then republishes the
	// fields of the manifest's schema entity as the schema registry.
	RoleSchema Role = "schema"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClasses, RoleOffsets, RoleSchema:
		return true
	}
	return false
}

// SourceFile is one entry of the build's file list.
type SourceFile struct {
	Name string `yaml:"name" json:"name"`
	Role Role   `yaml:"role" json:"role"` // empty means RoleClasses
}

// EffectiveRole returns the file's role, defaulting to RoleClasses.
func (f SourceFile) EffectiveRole() Role {
	if f.Role == "" {
		return RoleClasses
	}
	return f.Role
}

// DefaultSchemaEntity is the built-in class whose members are republished as
// the schema registry.
const DefaultSchemaEntity = "CSchemaSystem"

// Manifest lists the files of a dump in merge order. Later files win.
type Manifest struct {
	// Base is a local directory or an http(s) URL the file names are relative to.
	Base string `yaml:"base" json:"base"`

	// SchemaEntity names the class republished by RoleSchema files.
	SchemaEntity string `yaml:"schema_entity" json:"schemaEntity"`

	// Concurrency bounds parallel retrieval. Merging is always sequential.
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	Files []SourceFile `yaml:"files" json:"files"`
}

// DefaultManifest returns the file list of a standard dumper output directory.
func DefaultManifest() *Manifest {
	return &Manifest{
		Base:         "dumped/json",
		SchemaEntity: DefaultSchemaEntity,
		Files: []SourceFile{
			{Name: "client_dll.json", Role: RoleClasses},
			{Name: "buttons.json", Role: RoleClasses},
			{Name: "engine2_dll.json", Role: RoleClasses},
			{Name: "offsets.json", Role: RoleOffsets},
		},
	}
}

// Validate returns an error if the manifest contains invalid fields.
func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return Errorf(EINVALID, "manifest lists no files")
	}
	if m.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must not be negative")
	}
	seen := make(map[string]bool, len(m.Files))
	for i, f := range m.Files {
		if strings.TrimSpace(f.Name) == "" {
			return Errorf(EINVALID, "file %d: name required", i+1)
		}
		if !f.EffectiveRole().Valid() {
			return Errorf(EINVALID, "file %q: unknown role %q", f.Name, f.Role)
		}
		if seen[f.Name] {
			return Errorf(EINVALID, "file %q listed twice", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// IsRemote reports whether the manifest base is an http(s) URL.
func (m *Manifest) IsRemote() bool {
	return strings.HasPrefix(m.Base, "http://") || strings.HasPrefix(m.Base, "https://")
}
