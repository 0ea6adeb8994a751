package carryover

import (
	"encoding/json"
	"log/slog"
	"os"

	"examcli/internal/dataprocessing"
	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// LoadRecords reads a carryover record file exported by the resit
// pipeline: a JSON array of students with their resit scores.
func LoadRecords(path string) ([]domain.CarryoverRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read carryover records", err).
			WithContext("path", path)
	}

	var records []domain.CarryoverRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.NewParsingError("failed to parse carryover records", err).
			WithContext("path", path)
	}

	for i := range records {
		records[i].ExamNumber = dataprocessing.NormalizeExamNumber(records[i].ExamNumber)
	}

	slog.Info("Carryover records loaded",
		slog.String("path", path),
		slog.Int("students", len(records)))
	return records, nil
}

// PassingScores indexes the records by exam number, keeping only the
// resit scores at or above the pass threshold. A failed resit never
// touches the published sheet.
func PassingScores(records []domain.CarryoverRecord, passThreshold float64) map[string]map[string]float64 {
	passing := make(map[string]map[string]float64)
	for _, record := range records {
		for code, score := range record.Scores {
			if score < passThreshold {
				continue
			}
			if passing[record.ExamNumber] == nil {
				passing[record.ExamNumber] = make(map[string]float64)
			}
			passing[record.ExamNumber][code] = score
		}
	}
	return passing
}
