package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCatalog(t *testing.T) {
	t.Parallel()

	t.Run("writes entities in catalog order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out", "catalog.json")
		c := schemadex.NewCatalog([]*schemadex.Entity{
			{Name: "Weapon", Fields: []schemadex.Field{{Name: "m_ammo", Value: schemadex.Int(16)}}},
			{Name: schemadex.GlobalModulesName},
		})

		require.NoError(t, fs.ExportCatalog(path, c))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got []schemadex.Entity
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, schemadex.GlobalModulesName, got[0].Name)
		assert.Equal(t, "Weapon", got[1].Name)
		assert.Equal(t, "16", got[1].Fields[0].Value.String())
	})

	t.Run("replaces an existing file and leaves no temporary files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		require.NoError(t, fs.ExportCatalog(path, schemadex.NewCatalog(nil)))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
