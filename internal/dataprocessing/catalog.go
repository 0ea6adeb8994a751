package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// LoadCatalog reads the course workbook for a program. Each sheet is
// one semester with columns COURSE CODE / COURSE TITLE / CU; rows with
// a TOTAL marker or a non-numeric credit unit are dropped.
func LoadCatalog(filePath, program string) (*domain.Catalog, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open course workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	catalog := &domain.Catalog{
		Program:   program,
		Semesters: make(map[string][]domain.Course),
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			slog.Warn("Skipping catalog sheet with no rows", slog.String("sheet", sheet))
			continue
		}

		cols := mapCatalogColumns(rows[0])
		if cols == nil {
			slog.Warn("Catalog sheet missing expected columns",
				slog.String("sheet", sheet),
				slog.Any("header", rows[0]))
			continue
		}

		var courses []domain.Course
		for _, row := range rows[1:] {
			course, ok := parseCatalogRow(row, cols)
			if ok {
				courses = append(courses, course)
			}
		}

		if len(courses) == 0 {
			slog.Warn("Catalog sheet has no valid rows after cleaning", slog.String("sheet", sheet))
			continue
		}

		catalog.Semesters[sheet] = courses
		slog.Debug("Loaded catalog sheet",
			slog.String("sheet", sheet),
			slog.Int("courses", len(courses)))
	}

	if len(catalog.Semesters) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("no course data loaded from %s", filePath), nil)
	}

	return catalog, nil
}

// catalogColumns holds the column indexes of the catalog header.
type catalogColumns struct {
	code  int
	title int
	cu    int
}

func mapCatalogColumns(header []string) *catalogColumns {
	cols := catalogColumns{code: -1, title: -1, cu: -1}
	for i, cell := range header {
		switch strings.ToUpper(strings.TrimSpace(cell)) {
		case "COURSE CODE":
			cols.code = i
		case "COURSE TITLE":
			cols.title = i
		case "CU", "CREDIT UNIT", "CREDIT UNITS":
			cols.cu = i
		}
	}
	if cols.code < 0 || cols.title < 0 || cols.cu < 0 {
		return nil
	}
	return &cols
}

func parseCatalogRow(row []string, cols *catalogColumns) (domain.Course, bool) {
	get := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	code := get(cols.code)
	title := get(cols.title)
	if code == "" || title == "" {
		return domain.Course{}, false
	}
	if strings.Contains(strings.ToUpper(code), "TOTAL") {
		return domain.Course{}, false
	}

	cu, err := strconv.ParseFloat(strings.ReplaceAll(get(cols.cu), ",", ""), 64)
	if err != nil || cu <= 0 {
		return domain.Course{}, false
	}

	return domain.Course{
		Code:        code,
		Title:       title,
		CreditUnits: int(cu),
	}, true
}
