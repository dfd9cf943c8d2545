package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/schemadex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	cat, err := loadCatalog(deps, c.Snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}

	e := newIndex(deps, cat).GetEntity(c.Name)
	if e == nil {
		fmt.Fprintf(deps.Stderr, "error: entity %q not found. Use 'schemadex search' to list entities.\n", c.Name)
		return schemadex.Errorf(schemadex.ENOTFOUND, "entity %q not found", c.Name)
	}

	writeEntity(deps.Stdout, e)
	return nil
}

// writeEntity prints an entity the way the detail view lays it out: grouped
// fields as one table each, otherwise a single name/offset table.
func writeEntity(w io.Writer, e *schemadex.Entity) {
	fmt.Fprintln(w, schemadex.DisplayName(e.Name))
	if label := e.ParentLabel(); label != "" {
		fmt.Fprintf(w, "  parent: %s\n", label)
	}

	if len(e.Fields) > 0 {
		fmt.Fprintln(w)
		if e.HasGroupedFields() {
			writeGroupedFields(w, e.Fields)
		} else {
			writeSimpleFields(w, e.Fields)
		}
	}

	if len(e.Methods) > 0 {
		fmt.Fprintln(w, "\nMethods:")
		for i := range e.Methods {
			m := &e.Methods[i]
			fmt.Fprintf(w, "  %s %s(%s)\n", m.DisplayReturnType(), m.Name, m.Signature())
		}
	}
}

func writeSimpleFields(w io.Writer, fields []schemadex.Field) {
	width := len("Name")
	for _, f := range fields {
		width = max(width, len(f.Name))
	}
	fmt.Fprintf(w, "%-*s  %s\n", width, "Name", "Hex")
	for _, f := range fields {
		line := fmt.Sprintf("%-*s  %s", width, f.Name, f.Value.Hex())
		if f.TypeName != "" {
			line += "  " + f.TypeName
		}
		fmt.Fprintln(w, line)
		writeEnumValues(w, f.EnumValues, "    ")
	}
}

func writeGroupedFields(w io.Writer, fields []schemadex.Field) {
	for i, f := range fields {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := f.Name
		if f.TypeName != "" {
			header += " (" + f.TypeName + ")"
		}
		fmt.Fprintln(w, header)

		if f.Kind == schemadex.FieldSimple {
			fmt.Fprintf(w, "  %s\n", f.Value.Hex())
		}
		width := 0
		for _, nv := range f.Offsets {
			width = max(width, len(nv.Name))
		}
		for _, nv := range f.Offsets {
			fmt.Fprintf(w, "  %-*s  %s\n", width, nv.Name, nv.Value.Hex())
		}
		writeEnumValues(w, f.EnumValues, "  ")
	}
}

func writeEnumValues(w io.Writer, values []schemadex.NamedValue, indent string) {
	if len(values) == 0 {
		return
	}
	parts := make([]string, len(values))
	for i, nv := range values {
		parts[i] = nv.Name + "=" + nv.Value.String()
	}
	fmt.Fprintf(w, "%senum: %s\n", indent, strings.Join(parts, ", "))
}
