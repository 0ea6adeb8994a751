package screening

import (
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"examcli/internal/dataprocessing"
	apperrors "examcli/internal/errors"
	"examcli/pkg/contracts/domain"
)

// Every CAOSCE station is marked out of 10.
const stationMaxScore = 10.0

var stationNumber = regexp.MustCompile(`(?i)station[\s_-]*(\d)|[PQ]S[\s_-]*(\d)|procedure[\s_-]*(\d)|question[\s_-]*(\d)`)

// StationFromFilename resolves a per-station export to its station
// key: VIVA, or PS/QS by station number (procedure odd, question
// even).
func StationFromFilename(name string) string {
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "VIVA") {
		return domain.StationViva
	}

	m := stationNumber.FindStringSubmatch(upper)
	if m == nil {
		return ""
	}
	digits := ""
	for _, group := range m[1:] {
		if group != "" {
			digits = group
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 6 {
		return ""
	}
	if n%2 == 1 {
		return "PS" + digits
	}
	return "QS" + digits
}

// stationEntry is one candidate's row on a station sheet.
type stationEntry struct {
	Name  string
	Score float64
}

// loadStationSheet reads one station export keyed by exam number.
func loadStationSheet(path string) (map[string]stationEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open station export", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("station export has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read station rows", err)
	}

	headerIdx, examCol := findHeader(rows, screeningExamHeaders)
	if headerIdx < 0 {
		return nil, apperrors.NewParsingError("station export has no exam number column", nil).
			WithContext("path", path)
	}
	header := rows[headerIdx]
	nameCol := findColumn(header, screeningNameHeaders)
	scoreCol := findColumn(header, screeningScoreHeaders)
	if scoreCol < 0 {
		return nil, apperrors.NewParsingError("station export has no score column", nil).
			WithContext("path", path)
	}

	entries := make(map[string]stationEntry)
	for _, row := range rows[headerIdx+1:] {
		examNo := dataprocessing.NormalizeExamNumber(cellAt(row, examCol))
		if examNo == "" {
			continue
		}
		score, err := strconv.ParseFloat(cellAt(row, scoreCol), 64)
		if err != nil {
			continue
		}
		entries[examNo] = stationEntry{Name: cellAt(row, nameCol), Score: score}
	}
	return entries, nil
}

// MergeCAOSCE merges per-station exports into one result per
// candidate. Station files that cannot be attributed to a station are
// an error; candidates missing a station are flagged, not dropped.
func MergeCAOSCE(stationFiles []string) ([]domain.CAOSCEResult, error) {
	byStation := make(map[string]map[string]stationEntry)
	for _, path := range stationFiles {
		station := StationFromFilename(filepath.Base(path))
		if station == "" {
			return nil, apperrors.NewValidationError(
				"cannot infer CAOSCE station from filename: " + filepath.Base(path))
		}
		entries, err := loadStationSheet(path)
		if err != nil {
			return nil, err
		}
		byStation[station] = entries
	}
	if len(byStation) == 0 {
		return nil, apperrors.NewValidationError("no CAOSCE station files given")
	}

	merged := make(map[string]*domain.CAOSCEResult)
	var order []string
	for station, entries := range byStation {
		for examNo, entry := range entries {
			r, ok := merged[examNo]
			if !ok {
				r = &domain.CAOSCEResult{
					ExamNumber: examNo,
					Stations:   make(map[string]float64),
				}
				merged[examNo] = r
				order = append(order, examNo)
			}
			if r.FullName == "" {
				r.FullName = entry.Name
			}
			r.Stations[station] = entry.Score
		}
	}

	maxTotal := stationMaxScore * float64(len(domain.CAOSCEStationOrder))
	for _, r := range merged {
		for _, station := range domain.CAOSCEStationOrder {
			score, ok := r.Stations[station]
			if !ok {
				r.Missing = append(r.Missing, station)
				continue
			}
			r.Total += score
		}
		r.Percent = round2(r.Total / maxTotal * 100)
	}

	sort.Strings(order)
	results := make([]domain.CAOSCEResult, 0, len(order))
	for _, examNo := range order {
		results = append(results, *merged[examNo])
	}

	slog.Info("CAOSCE stations merged",
		slog.Int("stations", len(byStation)),
		slog.Int("candidates", len(results)))
	return results, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
