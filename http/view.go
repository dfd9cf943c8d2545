package http

import "github.com/fwojciec/schemadex"

// entityView is the detail payload of one entity, with every value already
// formatted for display.
type entityView struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Parent      string       `json:"parent,omitempty"`
	ParentLabel string       `json:"parentLabel,omitempty"`
	Grouped     bool         `json:"grouped"`
	Fields      []fieldView  `json:"fields"`
	Methods     []methodView `json:"methods"`
}

type fieldView struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	TypeName   string      `json:"typeName,omitempty"`
	Value      string      `json:"value,omitempty"`
	Hex        string      `json:"hex,omitempty"`
	Offsets    []valueView `json:"offsets,omitempty"`
	EnumValues []valueView `json:"enumValues,omitempty"`
}

type valueView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Hex   string `json:"hex"`
}

type methodView struct {
	Name       string `json:"name"`
	ReturnType string `json:"returnType"`
	Signature  string `json:"signature"`
}

func newEntityView(e *schemadex.Entity) entityView {
	v := entityView{
		Name:        e.Name,
		DisplayName: schemadex.DisplayName(e.Name),
		Parent:      e.Parent,
		ParentLabel: e.ParentLabel(),
		Grouped:     e.HasGroupedFields(),
		Fields:      make([]fieldView, 0, len(e.Fields)),
		Methods:     make([]methodView, 0, len(e.Methods)),
	}
	for _, f := range e.Fields {
		fv := fieldView{
			Name:       f.Name,
			Kind:       f.Kind.String(),
			TypeName:   f.TypeName,
			Offsets:    newValueViews(f.Offsets),
			EnumValues: newValueViews(f.EnumValues),
		}
		if f.Kind == schemadex.FieldSimple {
			fv.Value = f.Value.String()
			fv.Hex = f.Value.Hex()
		}
		v.Fields = append(v.Fields, fv)
	}
	for i := range e.Methods {
		m := &e.Methods[i]
		v.Methods = append(v.Methods, methodView{
			Name:       m.Name,
			ReturnType: m.DisplayReturnType(),
			Signature:  m.Signature(),
		})
	}
	return v
}

func newValueViews(values []schemadex.NamedValue) []valueView {
	if len(values) == 0 {
		return nil
	}
	out := make([]valueView, len(values))
	for i, nv := range values {
		out[i] = valueView{Name: nv.Name, Value: nv.Value.String(), Hex: nv.Value.Hex()}
	}
	return out
}
