package screening

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"examcli/internal/dataprocessing"
	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// Result rows whose name disagrees with the register below this
// similarity are reported for manual review.
const nameMatchThreshold = 0.5

var screeningExamHeaders = []string{
	"exam no", "exam number", "jamb no", "jamb number", "reg no",
	"reg. no", "registration number", "username",
}

var screeningNameHeaders = []string{
	"name", "full name", "candidate name", "user full name",
}

var screeningScoreHeaders = []string{
	"score", "total", "total score", "aggregate", "grade/10.00", "grade/40.00",
}

var registerPhoneHeaders = []string{"phone", "phone no", "phone number", "gsm"}
var registerStateHeaders = []string{"state", "state of origin"}

// LoadRegister reads a candidate batch register or JAMB candidate
// list. The batch ID defaults to the file name minus extension.
func LoadRegister(path string) ([]domain.RegisteredCandidate, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open register", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("register has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read register rows", err)
	}

	headerIdx, examCol := findHeader(rows, screeningExamHeaders)
	if headerIdx < 0 {
		return nil, apperrors.NewParsingError("register has no exam number column", nil).
			WithContext("path", path)
	}
	header := rows[headerIdx]
	nameCol := findColumn(header, screeningNameHeaders)
	phoneCol := findColumn(header, registerPhoneHeaders)
	stateCol := findColumn(header, registerStateHeaders)

	batchID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var candidates []domain.RegisteredCandidate
	for _, row := range rows[headerIdx+1:] {
		examNo := cellAt(row, examCol)
		if examNo == "" {
			continue
		}
		candidates = append(candidates, domain.RegisteredCandidate{
			ExamNumber: dataprocessing.NormalizeExamNumber(examNo),
			FullName:   cellAt(row, nameCol),
			Phone:      cellAt(row, phoneCol),
			State:      cellAt(row, stateCol),
			BatchID:    batchID,
		})
	}

	slog.Debug("Register loaded",
		slog.String("path", path),
		slog.Int("candidates", len(candidates)))
	return candidates, nil
}

// CleanScreening parses one raw screening export, drops the summary
// rows the CBT platform appends, merges the register data and ranks
// the candidates by score.
func CleanScreening(rawPath string, maxScore float64, registered []domain.RegisteredCandidate) (*domain.ScreeningReport, error) {
	f, err := excelize.OpenFile(rawPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open screening export", err).
			WithContext("path", rawPath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("screening export has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read screening rows", err)
	}

	headerIdx, examCol := findHeader(rows, screeningExamHeaders)
	if headerIdx < 0 {
		return nil, apperrors.NewParsingError("screening export has no exam number column", nil).
			WithContext("path", rawPath)
	}
	header := rows[headerIdx]
	nameCol := findColumn(header, screeningNameHeaders)
	scoreCol := findColumn(header, screeningScoreHeaders)
	if scoreCol < 0 {
		return nil, apperrors.NewParsingError("screening export has no score column", nil).
			WithContext("path", rawPath)
	}

	register := make(map[string]domain.RegisteredCandidate, len(registered))
	for _, r := range registered {
		register[r.ExamNumber] = r
	}

	report := &domain.ScreeningReport{
		Source:   filepath.Base(rawPath),
		MaxScore: maxScore,
	}

	seen := make(map[string]bool)
	for _, row := range rows[headerIdx+1:] {
		examNo := dataprocessing.NormalizeExamNumber(cellAt(row, examCol))
		name := cellAt(row, nameCol)
		if examNo == "" || isSummaryRow(examNo, name) {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, scoreCol)), 64)
		if err != nil {
			continue
		}

		candidate := domain.ScreeningCandidate{
			ExamNumber: examNo,
			FullName:   name,
			Score:      score,
		}

		if reg, ok := register[examNo]; ok {
			candidate.Registered = true
			candidate.Phone = reg.Phone
			candidate.State = reg.State
			candidate.BatchID = reg.BatchID
			if candidate.FullName == "" {
				candidate.FullName = reg.FullName
			} else if reg.FullName != "" &&
				dataprocessing.NameSimilarity(candidate.FullName, reg.FullName) < nameMatchThreshold {
				report.Mismatch = append(report.Mismatch, candidate)
			}
		}

		seen[examNo] = true
		report.Candidates = append(report.Candidates, candidate)
	}

	for _, r := range registered {
		if !seen[r.ExamNumber] {
			report.Absent = append(report.Absent, r)
		}
	}
	sort.Slice(report.Absent, func(i, j int) bool {
		return report.Absent[i].ExamNumber < report.Absent[j].ExamNumber
	})

	rank(report.Candidates)
	report.Bands = Distribution(report.Candidates, maxScore)

	slog.Info("Screening export cleaned",
		slog.String("source", report.Source),
		slog.Int("candidates", len(report.Candidates)),
		slog.Int("absent", len(report.Absent)),
		slog.Int("mismatch", len(report.Mismatch)))
	return report, nil
}

// Distribution buckets candidates into 10-point percent bands,
// highest band first. Empty bands are kept so the analysis sheet
// always shows the full scale.
func Distribution(candidates []domain.ScreeningCandidate, maxScore float64) []domain.ScoreBand {
	counts := make([]int, 10)
	for _, c := range candidates {
		if maxScore <= 0 {
			continue
		}
		percent := c.Score / maxScore * 100
		band := int(percent / 10)
		if band > 9 {
			band = 9
		}
		if band < 0 {
			band = 0
		}
		counts[band]++
	}

	bands := make([]domain.ScoreBand, 0, 10)
	for band := 9; band >= 0; band-- {
		label := fmt.Sprintf("%d-%d%%", band*10, band*10+9)
		if band == 9 {
			label = "90-100%"
		}
		bands = append(bands, domain.ScoreBand{Label: label, Count: counts[band]})
	}
	return bands
}

// Combine merges per-batch reports into one report ranked across every
// batch, so the admissions office can cut off at a single mark.
func Combine(reports []*domain.ScreeningReport) *domain.ScreeningReport {
	combined := &domain.ScreeningReport{Source: "COMBINED"}
	seen := make(map[string]bool)
	for _, r := range reports {
		if r.MaxScore > combined.MaxScore {
			combined.MaxScore = r.MaxScore
		}
		for _, c := range r.Candidates {
			if seen[c.ExamNumber] {
				continue
			}
			seen[c.ExamNumber] = true
			combined.Candidates = append(combined.Candidates, c)
		}
		combined.Mismatch = append(combined.Mismatch, r.Mismatch...)
		for _, a := range r.Absent {
			if !seen[a.ExamNumber] {
				combined.Absent = append(combined.Absent, a)
			}
		}
	}

	// A candidate absent from one batch may have sat another.
	kept := combined.Absent[:0]
	for _, a := range combined.Absent {
		if !seen[a.ExamNumber] {
			kept = append(kept, a)
		}
	}
	combined.Absent = kept
	sort.Slice(combined.Absent, func(i, j int) bool {
		return combined.Absent[i].ExamNumber < combined.Absent[j].ExamNumber
	})

	rank(combined.Candidates)
	combined.Bands = Distribution(combined.Candidates, combined.MaxScore)
	return combined
}

// rank orders candidates by score descending and assigns ranks; ties
// share the same rank.
func rank(candidates []domain.ScreeningCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ExamNumber < candidates[j].ExamNumber
	})

	for i := range candidates {
		if i > 0 && candidates[i].Score == candidates[i-1].Score {
			candidates[i].Rank = candidates[i-1].Rank
			continue
		}
		candidates[i].Rank = i + 1
	}
}

// isSummaryRow spots the aggregate rows CBT exports append after the
// last candidate.
func isSummaryRow(examNo, name string) bool {
	for _, cell := range []string{examNo, name} {
		if strings.Contains(strings.ToLower(cell), "overall average") {
			return true
		}
	}
	return false
}

func findHeader(rows [][]string, candidates []string) (headerIdx, col int) {
	limit := len(rows)
	if limit > 15 {
		limit = 15
	}
	for i := 0; i < limit; i++ {
		if c := findColumn(rows[i], candidates); c >= 0 {
			return i, c
		}
	}
	return -1, -1
}

func findColumn(header []string, candidates []string) int {
	for i, cell := range header {
		norm := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(cell))), " ")
		for _, cand := range candidates {
			if norm == cand {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
