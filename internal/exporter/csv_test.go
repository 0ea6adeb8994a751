package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examcli/pkg/contracts/domain"
)

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	w := NewCSVWriter()
	err := w.WriteSimpleCSV(path,
		[]string{"EXAM NUMBER", "NAME"},
		[][]string{
			{"ND/23/001", "ADAMU BELLO"},
			{"ND/23/002", "CHIOMA, EZE"},
		})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "BOM prefix for Excel")
	assert.Contains(t, string(data), "EXAM NUMBER,NAME")
	assert.Contains(t, string(data), `"CHIOMA, EZE"`, "commas in names are quoted")
}

func TestWriteCSV_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter()

	require.NoError(t, w.WriteSimpleCSV(path, []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{Records: [][]string{{"2"}}, Append: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	assert.Len(t, lines, 3)
}

func TestWriteMastersheetCSV(t *testing.T) {
	ms := &domain.Mastersheet{
		Courses: []domain.Course{
			{Code: "GNS101", Title: "Use of English", CreditUnits: 2},
			{Code: "NUS111", Title: "Foundations of Nursing", CreditUnits: 3},
		},
		PassThreshold: 50,
		Students: []domain.StudentResult{
			{
				ExamNumber: "ND/23/001",
				Name:       "ADAMU BELLO",
				Scores:     map[string]float64{"GNS101": 63, "NUS111": 74},
				CUPassed:   5,
				TCPE:       21,
				GPA:        4.2,
				CGPA:       3.6,
				Average:    68.5,
				Remarks:    "Passed",
			},
		},
	}

	path := filepath.Join(t.TempDir(), "mastersheet.csv")
	require.NoError(t, NewCSVWriter().WriteMastersheetCSV(path, ms))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "S/N,EXAM NUMBER,NAME,GNS101,NUS111,CU PASSED")
	assert.Contains(t, content, "1,ND/23/001,ADAMU BELLO,63C,74A,5,0,21.00,4.20,3.60,68.50,Passed")
}
