package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"examcli/internal/config"
	apperrors "examcli/internal/errors"
	"examcli/internal/grading"
	"examcli/pkg/contracts/domain"
)

// SlipWriter renders one PDF result slip per student for handout.
type SlipWriter struct{}

// NewSlipWriter creates a slip writer.
func NewSlipWriter() *SlipWriter {
	return &SlipWriter{}
}

// WriteSlips writes every student's slip into dir and returns the
// generated file names.
func (w *SlipWriter) WriteSlips(dir string, ms *domain.Mastersheet, semester domain.Semester) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create slip directory", err)
	}

	var written []string
	for _, student := range ms.Students {
		name := SlipFileName(student.ExamNumber)
		path := filepath.Join(dir, name)
		if err := w.writeSlip(path, student, ms, semester); err != nil {
			return nil, err
		}
		written = append(written, name)
	}

	slog.Info("Result slips written",
		slog.String("dir", dir),
		slog.Int("count", len(written)))
	return written, nil
}

func (w *SlipWriter) writeSlip(path string, s domain.StudentResult, ms *domain.Mastersheet, semester domain.Semester) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, config.CollegeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	title := fmt.Sprintf("%s %s %s RESULT SLIP %s (%s SESSION)",
		semester.LevelCode, semester.LevelDisplay, semester.SemesterDisplay, ms.Set, ms.Session)
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("EXAM NUMBER: %s", s.ExamNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("NAME: %s", s.Name), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Score table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(74, 144, 226)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(25, 7, "COURSE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "TITLE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "CU", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "SCORE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "GRADE", "1", 1, "C", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	for _, course := range ms.Courses {
		score := s.Scores[course.Code]
		failed := score < ms.PassThreshold
		if failed {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetTextColor(204, 0, 0)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(25, 6, course.Code, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, course.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", course.CreditUnits), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.0f", score), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, grading.Grade(score), "1", 1, "C", false, 0, "")
		if failed {
			pdf.SetTextColor(0, 0, 0)
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("CREDIT UNITS PASSED: %d    FAILED: %d", s.CUPassed, s.CUFailed), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("TCPE: %.1f    GPA: %.2f    CGPA: %.2f", s.TCPE, s.GPA, s.CGPA), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("REMARKS: %s", s.Remarks), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "_______________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "EXAMINATION OFFICER", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return apperrors.NewStorageError("failed to write result slip", err).
			WithContext("path", path)
	}
	return nil
}

// SlipFileName converts an exam number into a safe slip file name.
func SlipFileName(examNumber string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(examNumber)
	return safe + ".pdf"
}
