// Package yaml loads and writes build manifests in YAML.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/schemadex"
	"gopkg.in/yaml.v3"
)

// manifestDoc is the on-disk form of schemadex.Manifest.
type manifestDoc struct {
	Base         string      `yaml:"base"`
	SchemaEntity string      `yaml:"schema_entity"`
	Concurrency  int         `yaml:"concurrency"`
	Files        []fileEntry `yaml:"files"`
}

// fileEntry accepts either a bare file name or a {name, role} mapping.
type fileEntry schemadex.SourceFile

func (f *fileEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = fileEntry{Name: node.Value}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return schemadex.Errorf(schemadex.EINVALID, "line %d: file entry must be a name or a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch key := node.Content[i].Value; key {
		case "name", "role":
		default:
			return schemadex.Errorf(schemadex.EINVALID, "line %d: unknown file key %q", node.Content[i].Line, key)
		}
	}
	var sf struct {
		Name string         `yaml:"name"`
		Role schemadex.Role `yaml:"role"`
	}
	if err := node.Decode(&sf); err != nil {
		return err
	}
	*f = fileEntry{Name: sf.Name, Role: sf.Role}
	return nil
}

// ParseManifest decodes and validates a manifest. Unknown keys are rejected
// and an empty schema_entity selects schemadex.DefaultSchemaEntity.
func ParseManifest(data []byte) (*schemadex.Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc manifestDoc
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		if schemadex.ErrorCode(err) == schemadex.EINVALID {
			return nil, err
		}
		return nil, schemadex.Errorf(schemadex.EINVALID, "invalid manifest: %v", err)
	}

	m := &schemadex.Manifest{
		Base:         doc.Base,
		SchemaEntity: doc.SchemaEntity,
		Concurrency:  doc.Concurrency,
		Files:        make([]schemadex.SourceFile, len(doc.Files)),
	}
	for i, f := range doc.Files {
		m.Files[i] = schemadex.SourceFile(f)
	}
	if m.SchemaEntity == "" {
		m.SchemaEntity = schemadex.DefaultSchemaEntity
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadManifest reads a manifest file. A local base is resolved relative to
// the manifest's directory; an empty base means that directory itself.
func LoadManifest(path string) (*schemadex.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	if !m.IsRemote() && !filepath.IsAbs(m.Base) {
		m.Base = filepath.Join(filepath.Dir(path), m.Base)
	}
	return m, nil
}

// MarshalManifest encodes m in the form ParseManifest reads.
func MarshalManifest(m *schemadex.Manifest) ([]byte, error) {
	doc := manifestDoc{
		Base:         m.Base,
		SchemaEntity: m.SchemaEntity,
		Concurrency:  m.Concurrency,
		Files:        make([]fileEntry, len(m.Files)),
	}
	for i, f := range m.Files {
		doc.Files[i] = fileEntry{Name: f.Name, Role: f.EffectiveRole()}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveManifest writes m to path.
func SaveManifest(m *schemadex.Manifest, path string) error {
	data, err := MarshalManifest(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
