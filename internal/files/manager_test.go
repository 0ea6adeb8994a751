package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examcli/internal/config"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{BaseDir: base, LogsDir: filepath.Join(base, "logs")}
	return NewManager(paths), base
}

func TestManagerCopyFile(t *testing.T) {
	m, base := newTestManager(t)
	src := filepath.Join(base, "RAW_RESULTS", "raw.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("content"), 0644))

	require.NoError(t, m.CopyFile("RAW_RESULTS/raw.xlsx", "CLEAN_RESULTS/raw.xlsx"))

	data, err := os.ReadFile(filepath.Join(base, "CLEAN_RESULTS", "raw.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.True(t, m.FileExists("RAW_RESULTS/raw.xlsx"), "source is kept")
}

func TestManagerCopyFile_MissingSource(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Error(t, m.CopyFile("absent.xlsx", "copy.xlsx"))
}

func TestManagerMoveFile(t *testing.T) {
	m, base := newTestManager(t)
	require.NoError(t, m.WriteFile("staging/bundle.zip", []byte("zip")))

	require.NoError(t, m.MoveFile("staging/bundle.zip", "CLEAN_RESULTS/bundle.zip"))

	assert.False(t, m.FileExists("staging/bundle.zip"))
	assert.FileExists(t, filepath.Join(base, "CLEAN_RESULTS", "bundle.zip"))
}

func TestManagerWriteAndReadFile(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.WriteFile("CARRYOVER_RECORDS/resits.json", []byte(`{"a":1}`)))

	data, err := m.ReadFile("CARRYOVER_RECORDS/resits.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestManagerListFiles(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.WriteFile("CLEAN_RESULTS/a.xlsx", nil))
	require.NoError(t, m.WriteFile("CLEAN_RESULTS/b.csv", nil))
	require.NoError(t, m.EnsureDirectory("CLEAN_RESULTS/slips"))

	names, err := m.ListFiles("CLEAN_RESULTS")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.xlsx", "b.csv"}, names)
}
