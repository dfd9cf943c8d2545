package schemadex_test

import (
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("sorts names case-insensitively", func(t *testing.T) {
		t.Parallel()

		c := schemadex.NewCatalog([]*schemadex.Entity{
			{Name: "beta"}, {Name: "Alpha"}, {Name: "CGamma"}, {Name: "alpha2"},
		})

		assert.Equal(t, []string{"Alpha", "alpha2", "beta", "CGamma"}, c.Names())
		assert.Equal(t, 4, c.Len())
	})

	t.Run("pins global modules first", func(t *testing.T) {
		t.Parallel()

		c := schemadex.NewCatalog([]*schemadex.Entity{
			{Name: "Zed"}, {Name: schemadex.SchemaRegistryName}, {Name: "!bang"}, {Name: schemadex.GlobalModulesName},
		})

		require.NotEmpty(t, c.Names())
		assert.Equal(t, schemadex.GlobalModulesName, c.Names()[0])
		assert.Equal(t, []string{schemadex.GlobalModulesName, "!bang", schemadex.SchemaRegistryName, "Zed"}, c.Names())
	})

	t.Run("case-only differences have a stable order", func(t *testing.T) {
		t.Parallel()

		c := schemadex.NewCatalog([]*schemadex.Entity{{Name: "foo"}, {Name: "Foo"}, {Name: "FOO"}})

		assert.Equal(t, []string{"FOO", "Foo", "foo"}, c.Names())
	})

	t.Run("later entity with the same name wins", func(t *testing.T) {
		t.Parallel()

		c := schemadex.NewCatalog([]*schemadex.Entity{
			{Name: "Weapon", Parent: "A"},
			{Name: "Weapon", Parent: "B"},
		})

		require.NotNil(t, c.Entity("Weapon"))
		assert.Equal(t, "B", c.Entity("Weapon").Parent)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("unknown entity is nil", func(t *testing.T) {
		t.Parallel()

		c := schemadex.NewCatalog(nil)

		assert.Nil(t, c.Entity("Missing"))
		assert.Empty(t, c.Names())
		assert.Empty(t, c.Entities())
	})
}

func TestEntity(t *testing.T) {
	t.Parallel()

	t.Run("synthetic entities get the global label", func(t *testing.T) {
		t.Parallel()

		e := &schemadex.Entity{Name: schemadex.GlobalModulesName}

		assert.True(t, e.Synthetic())
		assert.Equal(t, "Global Types", e.ParentLabel())
		assert.Equal(t, "Global Modules", schemadex.DisplayName(e.Name))
	})

	t.Run("ordinary entity keeps its parent", func(t *testing.T) {
		t.Parallel()

		e := &schemadex.Entity{Name: "C_BaseEntity", Parent: "CEntityInstance"}

		assert.False(t, e.Synthetic())
		assert.Equal(t, "CEntityInstance", e.ParentLabel())
		assert.Equal(t, "C_BaseEntity", schemadex.DisplayName(e.Name))
	})

	t.Run("set field replaces in place", func(t *testing.T) {
		t.Parallel()

		e := &schemadex.Entity{Name: "X"}
		e.SetField(schemadex.Field{Name: "a", Value: schemadex.Int(1)})
		e.SetField(schemadex.Field{Name: "b", Value: schemadex.Int(2)})
		e.SetField(schemadex.Field{Name: "a", Value: schemadex.Int(3)})

		require.Len(t, e.Fields, 2)
		assert.Equal(t, "a", e.Fields[0].Name)
		assert.Equal(t, "0x3", e.Field("a").Value.Hex())
		assert.Nil(t, e.Field("c"))
	})

	t.Run("grouped fields are detected", func(t *testing.T) {
		t.Parallel()

		e := &schemadex.Entity{Fields: []schemadex.Field{{Name: "a"}, {Name: "b", Kind: schemadex.FieldGrouped}}}

		assert.True(t, e.HasGroupedFields())
	})
}

func TestMethod(t *testing.T) {
	t.Parallel()

	m := schemadex.Method{
		Name: "SetHealth",
		Args: []schemadex.Arg{{TypeName: "int32", Name: "value"}, {Name: "flags"}},
	}

	assert.Equal(t, "void", m.DisplayReturnType())
	assert.Equal(t, "int32 value, ? flags", m.Signature())
}
