package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// ScreeningExporter writes the cleaned, ranked screening workbook.
type ScreeningExporter struct{}

// NewScreeningExporter creates a screening exporter.
func NewScreeningExporter() *ScreeningExporter {
	return &ScreeningExporter{}
}

// Export writes the ranked results, the absentee list and the
// mismatch list into one workbook. Unregistered result rows keep a
// warning fill so the admissions office can chase them up.
func (e *ScreeningExporter) Export(fullPath string, report *domain.ScreeningReport) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const resultsSheet = "RESULTS"
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return apperrors.NewStorageError("failed to name results sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to build header style", err)
	}
	unregisteredStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failsFillColor}, Pattern: 1},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to build unregistered style", err)
	}

	header := []interface{}{"RANK", "EXAM NUMBER", "NAME", "PHONE", "STATE", "BATCH", "SCORE", "PERCENT"}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write screening header", err)
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "H1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style screening header", err)
	}

	states := newStateStyles(f)
	for i, c := range report.Candidates {
		row := i + 2
		percent := 0.0
		if report.MaxScore > 0 {
			percent = c.Score / report.MaxScore * 100
		}
		values := []interface{}{c.Rank, c.ExamNumber, c.FullName, c.Phone, c.State, c.BatchID, c.Score, percent}
		if err := f.SetSheetRow(resultsSheet, cell(1, row), &values); err != nil {
			return apperrors.NewStorageError("failed to write screening row", err)
		}
		if !c.Registered {
			if err := f.SetCellStyle(resultsSheet, cell(1, row), cell(8, row), unregisteredStyle); err != nil {
				return apperrors.NewStorageError("failed to style unregistered row", err)
			}
		} else if style, ok := states.styleFor(c.State); ok {
			if err := f.SetCellStyle(resultsSheet, cell(5, row), cell(5, row), style); err != nil {
				return apperrors.NewStorageError("failed to style state cell", err)
			}
		}
	}

	f.SetColWidth(resultsSheet, "B", "C", 24)
	f.SetColWidth(resultsSheet, "D", "F", 16)

	if len(report.Bands) > 0 {
		if err := writeAnalysisSheet(f, report, headerStyle); err != nil {
			return err
		}
	}

	if len(report.Absent) > 0 {
		if err := writeAbsentSheet(f, report.Absent, headerStyle); err != nil {
			return err
		}
	}
	if len(report.Mismatch) > 0 {
		if err := writeMismatchSheet(f, report.Mismatch, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save screening workbook", err).
			WithContext("path", fullPath)
	}

	slog.Info("Screening workbook exported",
		slog.String("path", fullPath),
		slog.Int("candidates", len(report.Candidates)),
		slog.Int("absent", len(report.Absent)),
		slog.Int("mismatch", len(report.Mismatch)))
	return nil
}

// stateFillPalette cycles through soft fills so candidates from the
// same state read as one block once the sheet is sorted by state.
var stateFillPalette = []string{
	"DDEBF7", "E2EFDA", "FFF2CC", "FCE4D6", "EDEDED", "D9E1F2",
}

type stateStyles struct {
	f      *excelize.File
	styles map[string]int
}

func newStateStyles(f *excelize.File) *stateStyles {
	return &stateStyles{f: f, styles: make(map[string]int)}
}

func (s *stateStyles) styleFor(state string) (int, bool) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return 0, false
	}
	if style, ok := s.styles[state]; ok {
		return style, true
	}
	color := stateFillPalette[len(s.styles)%len(stateFillPalette)]
	style, err := s.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, false
	}
	s.styles[state] = style
	return style, true
}

func writeAnalysisSheet(f *excelize.File, report *domain.ScreeningReport, headerStyle int) error {
	const sheet = "ANALYSIS"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create analysis sheet", err)
	}

	header := []interface{}{"SCORE BAND", "CANDIDATES"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write analysis header", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style analysis header", err)
	}

	for i, band := range report.Bands {
		values := []interface{}{band.Label, band.Count}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &values); err != nil {
			return apperrors.NewStorageError("failed to write analysis row", err)
		}
	}

	totalRow := len(report.Bands) + 2
	totals := []interface{}{"TOTAL", len(report.Candidates)}
	if err := f.SetSheetRow(sheet, cell(1, totalRow), &totals); err != nil {
		return apperrors.NewStorageError("failed to write analysis total", err)
	}
	f.SetColWidth(sheet, "A", "B", 14)
	return nil
}

func writeAbsentSheet(f *excelize.File, absent []domain.RegisteredCandidate, headerStyle int) error {
	const sheet = "ABSENT"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create absent sheet", err)
	}

	header := []interface{}{"EXAM NUMBER", "NAME", "PHONE", "STATE", "BATCH"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write absent header", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style absent header", err)
	}

	for i, c := range absent {
		values := []interface{}{c.ExamNumber, c.FullName, c.Phone, c.State, c.BatchID}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &values); err != nil {
			return apperrors.NewStorageError("failed to write absent row", err)
		}
	}
	f.SetColWidth(sheet, "A", "B", 24)
	return nil
}

func writeMismatchSheet(f *excelize.File, mismatch []domain.ScreeningCandidate, headerStyle int) error {
	const sheet = "NAME MISMATCH"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create mismatch sheet", err)
	}

	header := []interface{}{"EXAM NUMBER", "RESULT NAME", "SCORE"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write mismatch header", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style mismatch header", err)
	}

	for i, c := range mismatch {
		values := []interface{}{c.ExamNumber, c.FullName, c.Score}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &values); err != nil {
			return apperrors.NewStorageError("failed to write mismatch row", err)
		}
	}
	f.SetColWidth(sheet, "A", "B", 24)
	return nil
}

// ExportCAOSCE writes the merged CAOSCE station scores with one
// column per station plus total and percent.
func (e *ScreeningExporter) ExportCAOSCE(fullPath string, results []domain.CAOSCEResult) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "CAOSCE"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.NewStorageError("failed to name CAOSCE sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to build header style", err)
	}
	incompleteStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failsFillColor}, Pattern: 1},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to build incomplete style", err)
	}

	header := []interface{}{"S/N", "EXAM NUMBER", "NAME"}
	for _, station := range domain.CAOSCEStationOrder {
		header = append(header, station)
	}
	header = append(header, "TOTAL", "PERCENT", "MISSING STATIONS")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write CAOSCE header", err)
	}
	lastCol := cell(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style CAOSCE header", err)
	}

	for i, r := range results {
		row := i + 2
		values := []interface{}{i + 1, r.ExamNumber, r.FullName}
		for _, station := range domain.CAOSCEStationOrder {
			values = append(values, r.Stations[station])
		}
		missing := strings.Join(r.Missing, ", ")
		values = append(values, r.Total, r.Percent, missing)
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return apperrors.NewStorageError("failed to write CAOSCE row", err)
		}
		if len(r.Missing) > 0 {
			if err := f.SetCellStyle(sheet, cell(1, row), cell(len(header), row), incompleteStyle); err != nil {
				return apperrors.NewStorageError("failed to style incomplete row", err)
			}
		}
	}

	f.SetColWidth(sheet, "B", "C", 24)

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save CAOSCE workbook", err).
			WithContext("path", fullPath)
	}

	slog.Info("CAOSCE workbook exported",
		slog.String("path", fullPath),
		slog.Int("candidates", len(results)))
	return nil
}
