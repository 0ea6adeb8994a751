package carryover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"examcli/internal/config"
	"examcli/internal/dataprocessing"
	apperrors "examcli/internal/errors"
	"examcli/internal/exporter"
	"examcli/internal/files"
	"examcli/internal/grading"
	"examcli/internal/infrastructure"
	"examcli/pkg/contracts/domain"
)

// Updater applies resit outcomes to the latest published bundle of a
// set and repacks it as an UPDATED_ bundle.
type Updater struct {
	paths *config.Paths
	rules grading.Rules
}

// NewUpdater creates an updater with the configured paths and rules.
func NewUpdater(paths *config.Paths, rules grading.Rules) *Updater {
	return &Updater{paths: paths, rules: rules}
}

// UpdateSet reconciles one set's latest bundle against its carryover
// records. The original bundle is backed up before anything is
// touched and is itself never modified.
func (u *Updater) UpdateSet(ctx context.Context, program, set, recordsPath string) (*domain.UpdateReport, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	records, err := LoadRecords(recordsPath)
	if err != nil {
		return nil, err
	}
	passing := PassingScores(records, u.rules.PassThreshold)
	if len(passing) == 0 {
		return nil, apperrors.NewValidationError("no passing resit scores to apply")
	}

	cleanDir := u.paths.CleanResultsDir(program, set)
	discovery := files.NewDiscovery(cleanDir)
	bundle, err := discovery.LatestResultBundle(".", set)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no result bundle for set %s", set))
	}

	stamp := time.Now().Format(config.TimestampFormat)
	report := &domain.UpdateReport{}

	report.BackupPath = filepath.Join(cleanDir, fmt.Sprintf("BACKUP_%s.zip", stamp))
	manager := files.NewManager(u.paths)
	if err := manager.CopyFile(bundle.Path, report.BackupPath); err != nil {
		return nil, apperrors.NewStorageError("failed to back up bundle", err).
			WithContext("bundle", bundle.Name)
	}

	workDir, err := os.MkdirTemp("", "carryover-*")
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create work directory", err)
	}
	defer os.RemoveAll(workDir)

	extracted, err := files.ExtractZip(bundle.Path, workDir)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool)
	updatedSheets := 0
	for _, path := range extracted {
		name := filepath.Base(path)
		if !strings.HasPrefix(name, "mastersheet_") || !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		touched, err := u.updateMastersheet(ctx, path, program, set, passing, applied, report)
		if err != nil {
			return nil, err
		}
		if touched {
			updatedSheets++
		}
	}
	if updatedSheets == 0 && report.ScoresApplied == 0 {
		logger.Warn("No mastersheet rows matched the carryover records",
			slog.String("bundle", bundle.Name))
	}

	for examNo := range passing {
		if !applied[examNo] {
			report.Unmatched = append(report.Unmatched, examNo)
		}
	}
	sort.Strings(report.Unmatched)

	report.UpdatedBundle = filepath.Join(cleanDir, "UPDATED_"+bundle.Name)
	if err := files.CreateZipFromDir(report.UpdatedBundle, workDir); err != nil {
		return nil, err
	}

	logger.Info("Carryover update complete",
		slog.String("set", set),
		slog.String("bundle", bundle.Name),
		slog.Int("students_matched", report.StudentsMatched),
		slog.Int("scores_applied", report.ScoresApplied),
		slog.Int("scores_skipped", report.ScoresSkipped),
		slog.Int("unmatched", len(report.Unmatched)))
	return report, nil
}

// updateMastersheet applies the passing resit scores to one workbook
// and regenerates it in place when anything changed.
func (u *Updater) updateMastersheet(ctx context.Context, path, program, set string, passing map[string]map[string]float64, applied map[string]bool, report *domain.UpdateReport) (bool, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	ms, err := ReadMastersheet(path, u.rules.PassThreshold)
	if err != nil {
		return false, err
	}
	ms.Program = program
	ms.Set = set

	codes := make(map[string]bool, len(ms.Courses))
	for _, c := range ms.Courses {
		codes[c.Code] = true
	}

	touched := false
	for i := range ms.Students {
		student := &ms.Students[i]
		examNo := dataprocessing.NormalizeExamNumber(student.ExamNumber)
		resits, ok := passing[examNo]
		if !ok {
			continue
		}

		matchedHere := false
		for code, score := range resits {
			if !codes[code] {
				continue
			}
			matchedHere = true
			applied[examNo] = true

			current := student.Scores[code]
			switch {
			case current >= u.rules.PassThreshold:
				// Already passing on the published sheet.
				report.ScoresSkipped++
			case score <= current:
				report.ScoresSkipped++
			default:
				student.Scores[code] = score
				report.ScoresApplied++
				touched = true
				logger.Debug("Resit score applied",
					slog.String("exam_number", examNo),
					slog.String("course", code),
					slog.Float64("from", current),
					slog.Float64("to", score))
			}
		}
		if matchedHere {
			report.StudentsMatched++
		}
	}

	if !touched {
		return false, nil
	}

	for i := range ms.Students {
		u.rules.Recompute(&ms.Students[i], ms.Courses)
	}

	semester := dataprocessing.SemesterInfo(ms.SemesterKey, program)
	summary := dataprocessing.Summarize(ms, 0)
	ms.Session = sessionFromPath(path)

	if err := exporter.NewMastersheetExporter().Export(path, ms, semester, summary); err != nil {
		return false, err
	}
	return true, nil
}

// sessionFromPath is a best-effort recovery of the session from the
// bundle's manifest; bundles written before manifests carry none.
func sessionFromPath(sheetPath string) string {
	manifest, err := files.LoadManifest(filepath.Join(filepath.Dir(sheetPath), "manifest.json"))
	if err != nil {
		return ""
	}
	return manifest.Session
}
