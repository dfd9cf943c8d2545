package catalog

import (
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObject(t *testing.T) {
	t.Parallel()

	t.Run("keeps document order", func(t *testing.T) {
		t.Parallel()

		obj, err := decodeObject([]byte(`{"z": 1, "a": {"n": [1, 2]}, "m": "x"}`))

		require.NoError(t, err)
		require.Len(t, obj, 3)
		assert.Equal(t, "z", obj[0].Key)
		assert.Equal(t, "a", obj[1].Key)
		assert.JSONEq(t, `{"n": [1, 2]}`, string(obj[1].Value))
		assert.Equal(t, "m", obj[2].Key)
	})

	t.Run("repeated key keeps first position and last value", func(t *testing.T) {
		t.Parallel()

		obj, err := decodeObject([]byte(`{"a": 1, "b": 2, "a": 3}`))

		require.NoError(t, err)
		require.Len(t, obj, 2)
		assert.Equal(t, "a", obj[0].Key)
		assert.Equal(t, "3", string(obj[0].Value))
	})

	t.Run("rejects non-objects", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{`[1]`, `5`, `"s"`, `null`} {
			_, err := decodeObject([]byte(in))
			assert.ErrorIs(t, err, errNotObject, in)
		}
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()

		_, err := decodeObject([]byte(`{} {}`))

		assert.Error(t, err)
	})
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("invalid json is a parse failure", func(t *testing.T) {
		t.Parallel()

		_, err := parseDocument(`{"a": }`)

		assert.Equal(t, schemadex.EPARSE, schemadex.ErrorCode(err))
	})

	t.Run("trailing comma is a parse failure", func(t *testing.T) {
		t.Parallel()

		_, err := parseDocument(`{"a": 1,}`)

		assert.Equal(t, schemadex.EPARSE, schemadex.ErrorCode(err))
	})

	t.Run("array top level decodes as empty", func(t *testing.T) {
		t.Parallel()

		doc, err := parseDocument(`[1]`)

		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestParseField(t *testing.T) {
	t.Parallel()

	t.Run("null offsets is simple", func(t *testing.T) {
		t.Parallel()

		f := parseField("m_x", []byte(`{"offsets": null, "offset": 4}`))

		assert.Equal(t, schemadex.FieldSimple, f.Kind)
		assert.Equal(t, "0x4", f.Value.Hex())
	})

	t.Run("non-object offsets is an empty group", func(t *testing.T) {
		t.Parallel()

		f := parseField("m_x", []byte(`{"offsets": 7}`))

		assert.Equal(t, schemadex.FieldGrouped, f.Kind)
		assert.Empty(t, f.Offsets)
	})

	t.Run("bare string value", func(t *testing.T) {
		t.Parallel()

		f := parseField("m_x", []byte(`"0x10"`))

		assert.Equal(t, schemadex.FieldSimple, f.Kind)
		assert.Equal(t, "0x10", f.Value.Hex())
	})
}
