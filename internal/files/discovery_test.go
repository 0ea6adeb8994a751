package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindExcelFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b_results.xlsx"))
	touch(t, filepath.Join(dir, "a_results.XLSX"))
	touch(t, filepath.Join(dir, "legacy.xls"))
	touch(t, filepath.Join(dir, "~$a_results.xlsx"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))

	files, err := NewDiscovery(dir).FindExcelFiles(".")
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a_results.XLSX", "b_results.xlsx", "legacy.xls"}, names)
}

func TestFindExcelFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindExcelFiles("absent")
	assert.Error(t, err)
}

func TestLatestResultBundle(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "SET47_RESULT-2025-01-10_090000.zip"))
	touch(t, filepath.Join(dir, "SET47_RESULT-2025-03-02_141530.zip"))
	touch(t, filepath.Join(dir, "UPDATED_SET47_RESULT-2025-04-01_100000.zip"))
	touch(t, filepath.Join(dir, "BACKUP_2025-04-01_100000.zip"))
	touch(t, filepath.Join(dir, "SET48_RESULT-2025-05-01_100000.zip"))

	bundle, err := NewDiscovery(dir).LatestResultBundle(".", "SET47")
	require.NoError(t, err)
	assert.Equal(t, "SET47_RESULT-2025-03-02_141530.zip", bundle.Name)
}

func TestLatestResultBundle_NoBundles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "UPDATED_SET47_RESULT-2025-04-01_100000.zip"))

	_, err := NewDiscovery(dir).LatestResultBundle(".", "SET47")
	assert.Error(t, err)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "mastersheet_ND-FIRST-YEAR-FIRST-SEMESTER.xlsx"))
	touch(t, filepath.Join(dir, "mastersheet_ND-FIRST-YEAR-SECOND-SEMESTER.xlsx"))
	touch(t, filepath.Join(dir, "summary.csv"))

	files, err := NewDiscovery(dir).FindFilesByPattern(".", "mastersheet_*.xlsx")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	dir := t.TempDir()
	old := filepath.Join(dir, "old.xlsx")
	recent := filepath.Join(dir, "recent.xlsx")
	touch(t, old)
	touch(t, recent)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	files, err := NewDiscovery(dir).FindExcelFiles(".")
	require.NoError(t, err)

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "recent.xlsx", latest.Name)
}
