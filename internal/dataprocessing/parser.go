package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// examNumberHeaders are the known labels of the exam-number column
// across the various raw exports.
var examNumberHeaders = []string{
	"reg. no", "reg no", "registration number", "mat no",
	"exam no", "exams number", "exam number", "student id", "username",
}

// nameHeaders are the known labels of the student-name column.
var nameHeaders = []string{
	"name", "full name", "candidate name", "user full name", "firstname",
}

// ScoreEntry is one student's raw scores on a single sheet.
type ScoreEntry struct {
	ExamNumber string
	Name       string
	Scores     map[string]float64 // course code -> raw score
}

// ScoreSheet holds the parsed contents of one CA/OBJ/EXAM sheet.
type ScoreSheet struct {
	Kind    string
	Entries map[string]ScoreEntry // keyed by normalized exam number
}

// RawWorkbook is a parsed raw results workbook.
type RawWorkbook struct {
	Path   string
	Sheets map[string]*ScoreSheet
}

// ParseRawWorkbook reads a raw results workbook and extracts the
// CA/OBJ/EXAM sheets, mapping columns to catalog course codes by
// fuzzy title matching. Sheets outside RawScoreSheets are ignored.
func ParseRawWorkbook(filePath string, courses []domain.Course, sheetKinds []string) (*RawWorkbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open raw workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	wb := &RawWorkbook{
		Path:   filePath,
		Sheets: make(map[string]*ScoreSheet),
	}

	for _, kind := range sheetKinds {
		idx, err := f.GetSheetIndex(kind)
		if err != nil || idx < 0 {
			continue
		}
		rows, err := f.GetRows(kind)
		if err != nil {
			slog.Warn("Could not read sheet",
				slog.String("file", filePath),
				slog.String("sheet", kind),
				slog.String("error", err.Error()))
			continue
		}

		sheet, err := parseScoreRows(kind, rows, courses)
		if err != nil {
			slog.Warn("Skipping unparseable sheet",
				slog.String("file", filePath),
				slog.String("sheet", kind),
				slog.String("error", err.Error()))
			continue
		}
		wb.Sheets[kind] = sheet
	}

	if len(wb.Sheets) == 0 {
		return nil, apperrors.NewParsingError("no CA/OBJ/EXAM sheets detected", nil).
			WithContext("path", filePath)
	}

	return wb, nil
}

// parseScoreRows locates the header row, maps its columns and collects
// one entry per student.
func parseScoreRows(kind string, rows [][]string, courses []domain.Course) (*ScoreSheet, error) {
	headerRow, examCol, nameCol := findHeaderRow(rows)
	if headerRow < 0 {
		return nil, apperrors.NewParsingError("could not find header row with an exam number column", nil)
	}

	courseCols := mapCourseColumns(rows[headerRow], courses, examCol, nameCol)
	slog.Debug("Mapped score sheet columns",
		slog.String("sheet", kind),
		slog.Int("header_row", headerRow),
		slog.Int("course_columns", len(courseCols)))

	sheet := &ScoreSheet{
		Kind:    kind,
		Entries: make(map[string]ScoreEntry),
	}

	for _, row := range rows[headerRow+1:] {
		if examCol >= len(row) {
			continue
		}
		examNo := NormalizeExamNumber(row[examCol])
		if examNo == "" || examNo == "N/A" || examNo == "NULL" {
			continue
		}

		entry := ScoreEntry{
			ExamNumber: examNo,
			Scores:     make(map[string]float64, len(courseCols)),
		}
		if nameCol >= 0 && nameCol < len(row) {
			entry.Name = strings.TrimSpace(row[nameCol])
		}

		for code, col := range courseCols {
			if col >= len(row) {
				continue
			}
			if v, ok := parseScore(row[col]); ok {
				entry.Scores[code] = v
			}
		}

		sheet.Entries[examNo] = entry
	}

	return sheet, nil
}

// findHeaderRow scans the first rows for a cell matching a known exam
// number label. Returns the row plus exam-number and name columns.
func findHeaderRow(rows [][]string) (headerRow, examCol, nameCol int) {
	limit := len(rows)
	if limit > 15 {
		limit = 15
	}

	for i := 0; i < limit; i++ {
		examCol = findColumn(rows[i], examNumberHeaders)
		if examCol < 0 {
			continue
		}
		nameCol = findColumn(rows[i], nameHeaders)
		return i, examCol, nameCol
	}
	return -1, -1, -1
}

// findColumn returns the index of the first column whose normalized
// header equals one of the candidates, or -1.
func findColumn(header []string, candidates []string) int {
	for i, cell := range header {
		norm := multiSpace.ReplaceAllString(strings.TrimSpace(strings.ToLower(cell)), " ")
		for _, cand := range candidates {
			if norm == cand {
				return i
			}
		}
	}
	return -1
}

// mapCourseColumns matches the remaining header cells against catalog
// course titles (or codes) and returns code -> column index.
func mapCourseColumns(header []string, courses []domain.Course, examCol, nameCol int) map[string]int {
	cols := make(map[string]int)
	for i, cell := range header {
		if i == examCol || i == nameCol {
			continue
		}
		label := strings.TrimSpace(cell)
		if label == "" {
			continue
		}

		if code := matchCourse(label, courses); code != "" {
			cols[code] = i
		}
	}
	return cols
}

// matchCourse resolves a header label to a course code: exact code
// match first, then normalized title equality, then the closest title.
func matchCourse(label string, courses []domain.Course) string {
	upper := strings.ToUpper(label)
	for _, c := range courses {
		if upper == strings.ToUpper(c.Code) {
			return c.Code
		}
	}

	norm := NormalizeCourseName(label)
	for _, c := range courses {
		if norm == NormalizeCourseName(c.Title) {
			return c.Code
		}
	}

	best := ""
	bestScore := 0.0
	for _, c := range courses {
		if score := tokenSimilarity(norm, NormalizeCourseName(c.Title)); score > bestScore {
			bestScore = score
			best = c.Code
		}
	}
	if bestScore >= 0.75 {
		return best
	}
	return ""
}

// parseScore converts a raw cell to a number. Blank and non-numeric
// cells (absences, dashes) report ok=false.
func parseScore(cell string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
