package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examcli/internal/config"
	"examcli/pkg/contracts/domain"
)

var parserCourses = []domain.Course{
	{Code: "GNS101", Title: "Use of English", CreditUnits: 2},
	{Code: "NUS111", Title: "Foundations of Nursing", CreditUnits: 3},
}

func TestParseRawWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"CA": {
			{"SET 47 CONTINUOUS ASSESSMENT"},
			{"REG. No", "NAME", "Use of English", "NUS111", "Attendance"},
			{"nd/23/001", "ADAMU BELLO", 15, 12, "90%"},
			{"ND/23/002", "CHIOMA EZE", "", 18, ""},
			{"", "ghost row", 10, 10, ""},
		},
		"EXAM": {
			{"EXAM NO", "CANDIDATE NAME", "Use of English", "Foundations of Nursing"},
			{"ND/23/001", "ADAMU BELLO", 48, "-"},
			{"ND/23/002", "CHIOMA EZE", 62.5, 55},
		},
		"Sheet3": {
			{"unrelated"},
		},
	})

	wb, err := ParseRawWorkbook(path, parserCourses, config.RawScoreSheets)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2, "only CA and EXAM sheets are present")

	ca := wb.Sheets["CA"]
	require.NotNil(t, ca)
	require.Len(t, ca.Entries, 2, "blank exam numbers are skipped")

	adamu := ca.Entries["ND/23/001"]
	assert.Equal(t, "ADAMU BELLO", adamu.Name, "exam number casing is normalized")
	assert.Equal(t, map[string]float64{"GNS101": 15, "NUS111": 12}, adamu.Scores)

	chioma := ca.Entries["ND/23/002"]
	assert.Equal(t, map[string]float64{"NUS111": 18}, chioma.Scores, "blank score cells are absent, not zero")

	exam := wb.Sheets["EXAM"]
	require.NotNil(t, exam)
	assert.Equal(t, map[string]float64{"GNS101": 48}, exam.Entries["ND/23/001"].Scores, "dashes mark absences")
	assert.Equal(t, map[string]float64{"GNS101": 62.5, "NUS111": 55}, exam.Entries["ND/23/002"].Scores)
}

func TestParseRawWorkbook_NoScoreSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Summary": {{"nothing to see"}},
	})

	_, err := ParseRawWorkbook(path, parserCourses, config.RawScoreSheets)
	assert.Error(t, err)
}

func TestMatchCourse(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"GNS101", "GNS101"},
		{"gns101", "GNS101"},
		{"Use  of   English", "GNS101"},
		{"Foundations of Nursing", "NUS111"},
		{"Foundations of Nursing I", "NUS111"},
		{"Completely Different Subject", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, matchCourse(tt.label, parserCourses))
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		cell   string
		want   float64
		wantOK bool
	}{
		{"72", 72, true},
		{" 65.5 ", 65.5, true},
		{"1,200", 1200, true},
		{"", 0, false},
		{"-", 0, false},
		{"-5", 0, false},
		{"ABS", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseScore(tt.cell)
		assert.Equal(t, tt.wantOK, ok, "cell %q", tt.cell)
		assert.Equal(t, tt.want, got, "cell %q", tt.cell)
	}
}
