package carryover

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// ReadMastersheet parses a published mastersheet workbook back into
// its domain form so resit scores can be applied and the sheet
// regenerated. The sheet is named after its semester key; the course
// header cells carry "CODE\nTitle" with the credit units in the row
// below.
func ReadMastersheet(path string, passThreshold float64) (*domain.Mastersheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open mastersheet", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("mastersheet workbook has no sheets", nil)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read mastersheet rows", err)
	}

	headerIdx := -1
	for i, row := range rows {
		if len(row) >= 2 && strings.EqualFold(strings.TrimSpace(row[1]), "EXAM NUMBER") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || headerIdx+1 >= len(rows) {
		return nil, apperrors.NewParsingError("mastersheet header row not found", nil).
			WithContext("path", path)
	}

	header := rows[headerIdx]
	cuRow := rows[headerIdx+1]

	courses, courseStart, courseEnd, err := parseCourseHeader(header, cuRow)
	if err != nil {
		return nil, err
	}

	ms := &domain.Mastersheet{
		SemesterKey:   sheet,
		Courses:       courses,
		PassThreshold: passThreshold,
	}

	for _, row := range rows[headerIdx+2:] {
		if len(row) < 2 {
			break
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), "FAILS PER COURSE") {
			break
		}
		examNo := strings.TrimSpace(row[1])
		if examNo == "" {
			break
		}

		student := domain.StudentResult{
			ExamNumber: examNo,
			Scores:     make(map[string]float64, len(courses)),
		}
		if len(row) > 2 {
			student.Name = strings.TrimSpace(row[2])
		}

		for i, course := range courses {
			col := courseStart + i
			if col < len(row) {
				student.Scores[course.Code] = parseScoreCell(row[col])
			}
		}

		// CGPA survives the round trip; everything else is recomputed.
		cgpaCol := courseEnd + 4
		if cgpaCol < len(row) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[cgpaCol]), 64); err == nil {
				student.CGPA = v
			}
		}

		ms.Students = append(ms.Students, student)
	}

	if len(ms.Students) == 0 {
		return nil, apperrors.NewParsingError("mastersheet has no student rows", nil).
			WithContext("path", path)
	}
	return ms, nil
}

// parseCourseHeader extracts the course columns between NAME and the
// first summary column. Returns the courses plus the zero-based start
// column and the column just past the last course.
func parseCourseHeader(header, cuRow []string) ([]domain.Course, int, int, error) {
	const start = 3 // after S/N, EXAM NUMBER, NAME

	var courses []domain.Course
	end := start
	for i := start; i < len(header); i++ {
		cellValue := strings.TrimSpace(header[i])
		if cellValue == "" || strings.EqualFold(cellValue, "CU PASSED") {
			break
		}

		code, title, _ := strings.Cut(cellValue, "\n")
		cu := 0
		if i < len(cuRow) {
			cu, _ = strconv.Atoi(strings.TrimSpace(cuRow[i]))
		}
		courses = append(courses, domain.Course{
			Code:        strings.TrimSpace(code),
			Title:       strings.TrimSpace(title),
			CreditUnits: cu,
		})
		end = i + 1
	}

	if len(courses) == 0 {
		return nil, 0, 0, apperrors.NewParsingError("no course columns in mastersheet header", nil)
	}
	return courses, start, end, nil
}

// parseScoreCell strips the grade letter off a "63C" style cell.
func parseScoreCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	s = strings.TrimRight(s, "ABCDEF")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
