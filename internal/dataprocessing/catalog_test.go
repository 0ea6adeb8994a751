package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook writes sheets of rows into a temp xlsx and returns the path.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"ND-FIRST-YEAR-FIRST-SEMESTER": {
			{"COURSE CODE", "COURSE TITLE", "CU"},
			{"GNS101", "Use of English", 2},
			{"NUS111", "Foundations of Nursing", 3},
			{"TOTAL", "", 5},
			{"BIO112", "Anatomy", "n/a"},
		},
		"ND-FIRST-YEAR-SECOND-SEMESTER": {
			{"COURSE CODE", "COURSE TITLE", "CU"},
			{"NUS121", "Medical Nursing I", 4},
		},
	})

	catalog, err := LoadCatalog(path, "ND")
	require.NoError(t, err)

	first := catalog.Courses("ND-FIRST-YEAR-FIRST-SEMESTER")
	require.Len(t, first, 2, "TOTAL and non-numeric CU rows must be dropped")
	assert.Equal(t, "GNS101", first[0].Code)
	assert.Equal(t, 2, first[0].CreditUnits)
	assert.Equal(t, "Foundations of Nursing", first[1].Title)

	assert.Equal(t, 5, catalog.TotalCreditUnits("ND-FIRST-YEAR-FIRST-SEMESTER"))
	assert.Equal(t, map[string]int{"NUS121": 4}, catalog.CreditUnits("ND-FIRST-YEAR-SECOND-SEMESTER"))
}

func TestLoadCatalog_SkipsSheetsWithoutHeader(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"NOTES": {
			{"just", "some", "text"},
			{"no", "catalog", "here"},
		},
		"ND-FIRST-YEAR-FIRST-SEMESTER": {
			{"COURSE CODE", "COURSE TITLE", "CU"},
			{"GNS101", "Use of English", 2},
		},
	})

	catalog, err := LoadCatalog(path, "ND")
	require.NoError(t, err)

	assert.Nil(t, catalog.Courses("NOTES"))
	assert.Len(t, catalog.Courses("ND-FIRST-YEAR-FIRST-SEMESTER"), 1)
}

func TestLoadCatalog_NoUsableSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"EMPTY": {{"nothing"}},
	})

	_, err := LoadCatalog(path, "ND")
	assert.Error(t, err)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.xlsx"), "ND")
	assert.Error(t, err)
}
