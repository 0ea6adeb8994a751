package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"examcli/internal/config"
	"examcli/pkg/contracts/domain"
)

func testMastersheet() (*domain.Mastersheet, domain.Semester, domain.CohortSummary) {
	ms := &domain.Mastersheet{
		Program:     "ND",
		Set:         "SET47",
		SemesterKey: "ND-FIRST-YEAR-FIRST-SEMESTER",
		Session:     "2023/2024",
		Courses: []domain.Course{
			{Code: "GNS101", Title: "Use of English", CreditUnits: 2},
			{Code: "NUS111", Title: "Foundations of Nursing", CreditUnits: 3},
		},
		PassThreshold: 50,
		UpgradeMin:    45,
		UpgradedCount: 1,
		Students: []domain.StudentResult{
			{
				ExamNumber: "ND/23/001",
				Name:       "ADAMU BELLO",
				Scores:     map[string]float64{"GNS101": 63, "NUS111": 74},
				CUPassed:   5,
				TCPE:       21,
				GPA:        4.2,
				CGPA:       4.2,
				Average:    68.5,
				Remarks:    "Passed",
				Status:     domain.StatusPassed,
			},
			{
				ExamNumber:    "ND/23/002",
				Name:          "CHIOMA EZE",
				Scores:        map[string]float64{"GNS101": 50, "NUS111": 34},
				UpgradedFrom:  map[string]float64{"GNS101": 46},
				FailedCourses: []string{"NUS111"},
				CUPassed:      2,
				CUFailed:      3,
				TCPE:          6,
				GPA:           1.2,
				CGPA:          1.2,
				Average:       42,
				Remarks:       "Failed: NUS111",
				Status:        domain.StatusWithdrawn,
			},
		},
	}

	semester := domain.Semester{
		Key:             "ND-FIRST-YEAR-FIRST-SEMESTER",
		Year:            1,
		Number:          1,
		LevelDisplay:    "YEAR ONE",
		SemesterDisplay: "FIRST SEMESTER",
		LevelCode:       "NDI",
	}

	summary := domain.CohortSummary{
		TotalStudents:     2,
		PassedAll:         1,
		AdvisedToWithdraw: 1,
		UpgradedScores:    1,
		FailsPerCourse:    map[string]int{"GNS101": 0, "NUS111": 1},
	}

	return ms, semester, summary
}

func TestMastersheetExport(t *testing.T) {
	ms, semester, summary := testMastersheet()
	path := filepath.Join(t.TempDir(), MastersheetFileName(semester.Key))

	require.NoError(t, NewMastersheetExporter().Export(path, ms, semester, summary))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), semester.Key)
	sheet := semester.Key

	banner, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, config.CollegeName, banner)

	title, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Contains(t, title, "NDI YEAR ONE FIRST SEMESTER RESULTS SET47")

	// Header row: lead columns, courses, tail columns.
	examHeader, _ := f.GetCellValue(sheet, "B4")
	assert.Equal(t, "EXAM NUMBER", examHeader)
	courseHeader, _ := f.GetCellValue(sheet, "D4")
	assert.Contains(t, courseHeader, "GNS101")
	averageHeader, _ := f.GetCellValue(sheet, "K4")
	assert.Equal(t, "AVERAGE", averageHeader)
	remarksHeader, _ := f.GetCellValue(sheet, "L4")
	assert.Equal(t, "REMARKS", remarksHeader)

	// Credit unit row under the course headers.
	cu, _ := f.GetCellValue(sheet, "D5")
	assert.Equal(t, "2", cu)

	// First data row carries score plus grade.
	score, _ := f.GetCellValue(sheet, "D6")
	assert.Equal(t, "63C", score)
	remarks, _ := f.GetCellValue(sheet, "L6")
	assert.Equal(t, "Passed", remarks)

	// Upgraded score renders the raised value.
	upgraded, _ := f.GetCellValue(sheet, "D7")
	assert.Equal(t, "50C", upgraded)

	// Fails footer after the last student row.
	fails, _ := f.GetCellValue(sheet, "A8")
	assert.Equal(t, "FAILS PER COURSE", fails)
	failCount, _ := f.GetCellValue(sheet, "E8")
	assert.Equal(t, "1", failCount)

	// Summary block.
	total, _ := f.GetCellValue(sheet, "A10")
	assert.Equal(t, "TOTAL STUDENTS: 2", total)
}

func TestMastersheetFileName(t *testing.T) {
	assert.Equal(t, "mastersheet_ND-FIRST-YEAR-FIRST-SEMESTER.xlsx",
		MastersheetFileName("ND-FIRST-YEAR-FIRST-SEMESTER"))
}
