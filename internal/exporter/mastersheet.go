package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"examcli/internal/config"
	apperrors "examcli/internal/errors"
	"examcli/internal/grading"
	"examcli/pkg/contracts/domain"
)

// Cell fills and fonts of the printed mastersheet.
const (
	headerFillColor   = "4A90E2"
	cuRowFillColor    = "D9D9D9"
	passFillColor     = "C6EFCE"
	upgradedFillColor = "E6FFCC"
	failFontColor     = "CC0000"
	failsFillColor    = "F0E68C"
)

// fixedLeadColumns are S/N, EXAM NUMBER and NAME.
const fixedLeadColumns = 3

// MastersheetExporter writes the styled mastersheet workbook handed
// to the examinations office.
type MastersheetExporter struct{}

// NewMastersheetExporter creates a mastersheet exporter.
func NewMastersheetExporter() *MastersheetExporter {
	return &MastersheetExporter{}
}

// Export renders one semester's mastersheet into an xlsx file. The
// sheet is named after the semester key so carryover updates can find
// it again inside the bundle.
func (e *MastersheetExporter) Export(fullPath string, ms *domain.Mastersheet, semester domain.Semester, summary domain.CohortSummary) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := semester.Key
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.NewStorageError("failed to name mastersheet sheet", err)
	}

	styles, err := newMastersheetStyles(f)
	if err != nil {
		return err
	}

	codes := ms.CourseCodes()
	totalCols := fixedLeadColumns + len(codes) + len(tailHeaders)

	if err := writeBanner(f, sheet, ms, semester, totalCols, styles); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, ms, codes, styles); err != nil {
		return err
	}

	dataStart := cuRowIndex + 1
	for i, student := range ms.Students {
		if err := writeStudentRow(f, sheet, dataStart+i, i+1, student, ms, codes, styles); err != nil {
			return err
		}
	}

	footerRow := dataStart + len(ms.Students)
	if err := writeFailsFooter(f, sheet, footerRow, codes, summary, styles); err != nil {
		return err
	}
	if err := writeSummaryBlock(f, sheet, footerRow+2, ms, summary); err != nil {
		return err
	}
	if err := writeSignatureLines(f, sheet, footerRow+2+summaryLineCount(ms, summary)+2); err != nil {
		return err
	}

	applyColumnWidths(f, sheet, ms, codes)

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      fixedLeadColumns,
		YSplit:      cuRowIndex,
		TopLeftCell: cell(fixedLeadColumns+1, dataStart),
		ActivePane:  "bottomRight",
	}); err != nil {
		return apperrors.NewStorageError("failed to freeze panes", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save mastersheet", err).
			WithContext("path", fullPath)
	}

	slog.Info("Mastersheet exported",
		slog.String("path", fullPath),
		slog.String("sheet", sheet),
		slog.Int("students", len(ms.Students)))
	return nil
}

// Fixed header geometry: two banner rows, a spacer, the column header
// row and the credit-unit row.
const (
	headerRowIndex = 4
	cuRowIndex     = 5
)

var tailHeaders = []string{"CU PASSED", "CU FAILED", "TCPE", "GPA", "CGPA", "AVERAGE", "REMARKS"}

type mastersheetStyles struct {
	banner    int
	subBanner int
	header    int
	course    int
	cuRow     int
	data      int
	pass      int
	fail      int
	upgraded  int
	fails     int
}

func newMastersheetStyles(f *excelize.File) (*mastersheetStyles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	s := &mastersheetStyles{}
	var err error

	if s.banner, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build banner style", err)
	}
	if s.subBanner, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build sub-banner style", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build header style", err)
	}
	if s.course, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 9},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center", Vertical: "bottom", WrapText: true, TextRotation: 45,
		},
		Border: thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build course header style", err)
	}
	if s.cuRow, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 9},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{cuRowFillColor}, Pattern: 1},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build credit-unit style", err)
	}
	if s.data, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build data style", err)
	}
	if s.pass, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{passFillColor}, Pattern: 1},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build pass style", err)
	}
	if s.fail, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: failFontColor},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build fail style", err)
	}
	if s.upgraded, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{upgradedFillColor}, Pattern: 1},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build upgraded style", err)
	}
	if s.fails, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 9},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{failsFillColor}, Pattern: 1},
		Alignment: center,
		Border:    thin,
	}); err != nil {
		return nil, apperrors.NewStorageError("failed to build fails footer style", err)
	}

	return s, nil
}

func writeBanner(f *excelize.File, sheet string, ms *domain.Mastersheet, semester domain.Semester, totalCols int, styles *mastersheetStyles) error {
	last := columnName(totalCols)

	if err := f.MergeCell(sheet, "A1", last+"1"); err != nil {
		return apperrors.NewStorageError("failed to merge banner row", err)
	}
	if err := f.SetCellValue(sheet, "A1", config.CollegeName); err != nil {
		return apperrors.NewStorageError("failed to write banner", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", styles.banner); err != nil {
		return apperrors.NewStorageError("failed to style banner", err)
	}

	title := fmt.Sprintf("%s %s %s RESULTS %s (%s SESSION)",
		semester.LevelCode, semester.LevelDisplay, semester.SemesterDisplay, ms.Set, ms.Session)
	if err := f.MergeCell(sheet, "A2", last+"2"); err != nil {
		return apperrors.NewStorageError("failed to merge title row", err)
	}
	if err := f.SetCellValue(sheet, "A2", title); err != nil {
		return apperrors.NewStorageError("failed to write title", err)
	}
	if err := f.SetCellStyle(sheet, "A2", last+"2", styles.subBanner); err != nil {
		return apperrors.NewStorageError("failed to style title", err)
	}

	return f.SetRowHeight(sheet, headerRowIndex, 90)
}

func writeHeader(f *excelize.File, sheet string, ms *domain.Mastersheet, codes []string, styles *mastersheetStyles) error {
	lead := []string{"S/N", "EXAM NUMBER", "NAME"}
	for i, label := range lead {
		c := cell(i+1, headerRowIndex)
		if err := f.SetCellValue(sheet, c, label); err != nil {
			return apperrors.NewStorageError("failed to write header cell", err)
		}
		if err := f.SetCellStyle(sheet, c, c, styles.header); err != nil {
			return apperrors.NewStorageError("failed to style header cell", err)
		}
	}

	titleByCode := make(map[string]string, len(ms.Courses))
	cuByCode := make(map[string]int, len(ms.Courses))
	for _, course := range ms.Courses {
		titleByCode[course.Code] = course.Title
		cuByCode[course.Code] = course.CreditUnits
	}

	for i, code := range codes {
		col := fixedLeadColumns + i + 1
		c := cell(col, headerRowIndex)
		if err := f.SetCellValue(sheet, c, fmt.Sprintf("%s\n%s", code, titleByCode[code])); err != nil {
			return apperrors.NewStorageError("failed to write course header", err)
		}
		if err := f.SetCellStyle(sheet, c, c, styles.course); err != nil {
			return apperrors.NewStorageError("failed to style course header", err)
		}

		cu := cell(col, cuRowIndex)
		if err := f.SetCellValue(sheet, cu, cuByCode[code]); err != nil {
			return apperrors.NewStorageError("failed to write credit units", err)
		}
	}

	for i, label := range tailHeaders {
		c := cell(fixedLeadColumns+len(codes)+i+1, headerRowIndex)
		if err := f.SetCellValue(sheet, c, label); err != nil {
			return apperrors.NewStorageError("failed to write tail header", err)
		}
		if err := f.SetCellStyle(sheet, c, c, styles.header); err != nil {
			return apperrors.NewStorageError("failed to style tail header", err)
		}
	}

	// CU row label and style across the full width.
	if err := f.SetCellValue(sheet, cell(fixedLeadColumns, cuRowIndex), "CREDIT UNITS"); err != nil {
		return apperrors.NewStorageError("failed to write credit unit label", err)
	}
	total := fixedLeadColumns + len(codes) + len(tailHeaders)
	if err := f.SetCellStyle(sheet, cell(1, cuRowIndex), cell(total, cuRowIndex), styles.cuRow); err != nil {
		return apperrors.NewStorageError("failed to style credit unit row", err)
	}
	return nil
}

func writeStudentRow(f *excelize.File, sheet string, row, serial int, s domain.StudentResult, ms *domain.Mastersheet, codes []string, styles *mastersheetStyles) error {
	set := func(col int, value interface{}, style int) error {
		c := cell(col, row)
		if err := f.SetCellValue(sheet, c, value); err != nil {
			return apperrors.NewStorageError("failed to write result cell", err)
		}
		return f.SetCellStyle(sheet, c, c, style)
	}

	if err := set(1, serial, styles.data); err != nil {
		return err
	}
	if err := set(2, s.ExamNumber, styles.data); err != nil {
		return err
	}
	if err := set(3, s.Name, styles.data); err != nil {
		return err
	}

	for i, code := range codes {
		score := s.Scores[code]
		style := styles.pass
		switch {
		case score < ms.PassThreshold:
			style = styles.fail
		case s.UpgradedFrom != nil && hasKey(s.UpgradedFrom, code):
			style = styles.upgraded
		}
		value := fmt.Sprintf("%.0f%s", score, grading.Grade(score))
		if err := set(fixedLeadColumns+i+1, value, style); err != nil {
			return err
		}
	}

	base := fixedLeadColumns + len(codes)
	tail := []interface{}{s.CUPassed, s.CUFailed, s.TCPE, s.GPA, s.CGPA, s.Average, s.Remarks}
	for i, v := range tail {
		if err := set(base+i+1, v, styles.data); err != nil {
			return err
		}
	}
	return nil
}

func writeFailsFooter(f *excelize.File, sheet string, row int, codes []string, summary domain.CohortSummary, styles *mastersheetStyles) error {
	label := cell(1, row)
	if err := f.SetCellValue(sheet, label, "FAILS PER COURSE"); err != nil {
		return apperrors.NewStorageError("failed to write fails label", err)
	}
	if err := f.MergeCell(sheet, label, cell(fixedLeadColumns, row)); err != nil {
		return apperrors.NewStorageError("failed to merge fails label", err)
	}

	for i, code := range codes {
		c := cell(fixedLeadColumns+i+1, row)
		if err := f.SetCellValue(sheet, c, summary.FailsPerCourse[code]); err != nil {
			return apperrors.NewStorageError("failed to write fails count", err)
		}
	}

	end := cell(fixedLeadColumns+len(codes), row)
	if err := f.SetCellStyle(sheet, label, end, styles.fails); err != nil {
		return apperrors.NewStorageError("failed to style fails footer", err)
	}
	return nil
}

func writeSummaryBlock(f *excelize.File, sheet string, row int, ms *domain.Mastersheet, summary domain.CohortSummary) error {
	lines := summaryLines(ms, summary)
	for i, line := range lines {
		if err := f.SetCellValue(sheet, cell(1, row+i), line); err != nil {
			return apperrors.NewStorageError("failed to write summary line", err)
		}
	}
	return nil
}

func summaryLines(ms *domain.Mastersheet, summary domain.CohortSummary) []string {
	lines := []string{
		fmt.Sprintf("TOTAL STUDENTS: %d", summary.TotalStudents),
		fmt.Sprintf("PASSED ALL COURSES: %d", summary.PassedAll),
		fmt.Sprintf("CARRYOVER STUDENTS: %d", summary.CarryoverStudents),
		fmt.Sprintf("ON PROBATION: %d", summary.Probation),
		fmt.Sprintf("ADVISED TO WITHDRAW: %d", summary.AdvisedToWithdraw),
	}
	if summary.RemovedWithdrawn > 0 {
		lines = append(lines, fmt.Sprintf("PREVIOUSLY WITHDRAWN (REMOVED): %d", summary.RemovedWithdrawn))
	}
	if ms.UpgradeMin > 0 {
		lines = append(lines, fmt.Sprintf("SCORES UPGRADED FROM %d-49 TO 50: %d", ms.UpgradeMin, summary.UpgradedScores))
	}
	return lines
}

func summaryLineCount(ms *domain.Mastersheet, summary domain.CohortSummary) int {
	return len(summaryLines(ms, summary))
}

func writeSignatureLines(f *excelize.File, sheet string, row int) error {
	signatories := []string{
		"_______________________    EXAMINATION OFFICER",
		"_______________________    HEAD OF DEPARTMENT",
		"_______________________    PROVOST",
	}
	for i, line := range signatories {
		if err := f.SetCellValue(sheet, cell(1, row+i*2), line); err != nil {
			return apperrors.NewStorageError("failed to write signature line", err)
		}
	}
	return nil
}

func applyColumnWidths(f *excelize.File, sheet string, ms *domain.Mastersheet, codes []string) {
	f.SetColWidth(sheet, "A", "A", 5)
	f.SetColWidth(sheet, "B", "B", 16)

	nameWidth := 20.0
	remarksWidth := 40.0
	for _, s := range ms.Students {
		if w := float64(len(s.Name)) + 2; w > nameWidth {
			nameWidth = w
		}
		if w := float64(len(s.Remarks)) + 2; w > remarksWidth {
			remarksWidth = w
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}
	if remarksWidth > 80 {
		remarksWidth = 80
	}
	f.SetColWidth(sheet, "C", "C", nameWidth)

	first := columnName(fixedLeadColumns + 1)
	last := columnName(fixedLeadColumns + len(codes))
	f.SetColWidth(sheet, first, last, 7)

	tailFirst := columnName(fixedLeadColumns + len(codes) + 1)
	tailLast := columnName(fixedLeadColumns + len(codes) + len(tailHeaders) - 1)
	f.SetColWidth(sheet, tailFirst, tailLast, 10)

	remarks := columnName(fixedLeadColumns + len(codes) + len(tailHeaders))
	f.SetColWidth(sheet, remarks, remarks, remarksWidth)
}

// MastersheetFileName returns the workbook name used inside bundles.
func MastersheetFileName(semesterKey string) string {
	return fmt.Sprintf("mastersheet_%s.xlsx", semesterKey)
}

func hasKey(m map[string]float64, key string) bool {
	_, ok := m[key]
	return ok
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
