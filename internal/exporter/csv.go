package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"examcli/internal/grading"
	"examcli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(fullPath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSimpleCSV writes a CSV file with headers, records and a BOM.
func (w *CSVWriter) WriteSimpleCSV(fullPath string, headers []string, records [][]string) error {
	return w.WriteCSV(fullPath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteMastersheetCSV exports the flat CSV companion of a mastersheet
// workbook: one row per student, scores by course code.
func (w *CSVWriter) WriteMastersheetCSV(fullPath string, ms *domain.Mastersheet) error {
	codes := ms.CourseCodes()

	headers := []string{"S/N", "EXAM NUMBER", "NAME"}
	headers = append(headers, codes...)
	headers = append(headers, "CU PASSED", "CU FAILED", "TCPE", "GPA", "CGPA", "AVERAGE", "REMARKS")

	records := make([][]string, 0, len(ms.Students))
	for i, s := range ms.Students {
		record := []string{
			strconv.Itoa(i + 1),
			s.ExamNumber,
			s.Name,
		}
		for _, code := range codes {
			score := s.Scores[code]
			record = append(record, fmt.Sprintf("%.0f%s", score, grading.Grade(score)))
		}
		record = append(record,
			strconv.Itoa(s.CUPassed),
			strconv.Itoa(s.CUFailed),
			formatFloat(s.TCPE),
			formatFloat(s.GPA),
			formatFloat(s.CGPA),
			formatFloat(s.Average),
			s.Remarks,
		)
		records = append(records, record)
	}

	return w.WriteSimpleCSV(fullPath, headers, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
