package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateZipAndExtract(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "mastersheet.xlsx"), []byte("sheet"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "manifest.json"), []byte("{}"), 0644))

	archive := filepath.Join(t.TempDir(), "SET47_RESULT-2025-03-02_141530.zip")
	err := CreateZip(archive, map[string]string{
		"mastersheet.xlsx": filepath.Join(src, "mastersheet.xlsx"),
		"manifest.json":    filepath.Join(src, "manifest.json"),
	})
	require.NoError(t, err)

	dest := t.TempDir()
	extracted, err := ExtractZip(archive, dest)
	require.NoError(t, err)
	assert.Len(t, extracted, 2)

	data, err := os.ReadFile(filepath.Join(dest, "mastersheet.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(data))
}

func TestCreateZipFromDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "slips"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "summary.csv"), []byte("a,b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "slips", "ND_23_001.pdf"), []byte("pdf"), 0644))

	archive := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, CreateZipFromDir(archive, src))

	dest := t.TempDir()
	extracted, err := ExtractZip(archive, dest)
	require.NoError(t, err)
	assert.Len(t, extracted, 2)
	assert.FileExists(t, filepath.Join(dest, "slips", "ND_23_001.pdf"))
}

func TestCreateZip_MissingSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bundle.zip")
	err := CreateZip(archive, map[string]string{
		"gone.xlsx": filepath.Join(t.TempDir(), "gone.xlsx"),
	})
	assert.Error(t, err)
}
