// Command screening cleans UTME/PUTME screening exports: it merges
// candidate batch registers and JAMB lists into the raw CBT results,
// ranks the candidates and writes a styled workbook plus CSV to the
// clean screening directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"examcli/internal/config"
	"examcli/internal/exporter"
	"examcli/internal/files"
	"examcli/internal/infrastructure"
	"examcli/internal/screening"
	"examcli/pkg/contracts/domain"
)

func main() {
	maxScore := flag.Float64("max", 40, "maximum obtainable screening score")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	cfg.Logging.FilePath = paths.GetLogPath("screening.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	if err := run(ctx, paths, *maxScore); err != nil {
		logger.Error("Screening run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, paths *config.Paths, maxScore float64) error {
	logger := infrastructure.LoggerFromContext(ctx)

	if err := paths.EnsureScreeningDirectories(); err != nil {
		return err
	}

	registered, err := loadRegisters(paths, logger)
	if err != nil {
		return err
	}

	rawFiles, err := files.NewDiscovery(paths.RawScreeningDir()).FindExcelFiles(".")
	if err != nil {
		return err
	}
	if len(rawFiles) == 0 {
		return fmt.Errorf("no raw screening exports in %s", paths.RawScreeningDir())
	}

	csvWriter := exporter.NewCSVWriter()
	screeningExporter := exporter.NewScreeningExporter()

	var reports []*domain.ScreeningReport
	for _, raw := range rawFiles {
		report, err := screening.CleanScreening(raw.Path, maxScore, registered)
		if err != nil {
			return err
		}

		base := raw.Name[:len(raw.Name)-len(filepath.Ext(raw.Name))]
		workbook := filepath.Join(paths.CleanScreeningDir(), "CLEAN_"+base+".xlsx")
		if err := screeningExporter.Export(workbook, report); err != nil {
			return err
		}
		if err := csvWriter.WriteSimpleCSV(
			filepath.Join(paths.CleanScreeningDir(), "CLEAN_"+base+".csv"),
			[]string{"RANK", "EXAM NUMBER", "NAME", "PHONE", "STATE", "BATCH", "SCORE"},
			screeningRecords(report),
		); err != nil {
			return err
		}

		fmt.Printf("Cleaned %s: %d candidates, %d absent, %d mismatched\n",
			raw.Name, len(report.Candidates), len(report.Absent), len(report.Mismatch))
		reports = append(reports, report)
	}

	if len(reports) > 1 {
		combined := screening.Combine(reports)
		name := "CLEAN_SCREENING_COMBINED-" + time.Now().Format(config.TimestampFormat)
		if err := screeningExporter.Export(
			filepath.Join(paths.CleanScreeningDir(), name+".xlsx"), combined); err != nil {
			return err
		}
		if err := csvWriter.WriteSimpleCSV(
			filepath.Join(paths.CleanScreeningDir(), name+".csv"),
			[]string{"RANK", "EXAM NUMBER", "NAME", "PHONE", "STATE", "BATCH", "SCORE"},
			screeningRecords(combined),
		); err != nil {
			return err
		}
		fmt.Printf("Combined %d batches: %d candidates ranked\n",
			len(reports), len(combined.Candidates))
	}

	return nil
}

// loadRegisters reads every candidate batch register and JAMB list.
func loadRegisters(paths *config.Paths, logger *slog.Logger) ([]domain.RegisteredCandidate, error) {
	var registered []domain.RegisteredCandidate
	for _, dir := range []string{paths.CandidateBatchesDir(), paths.JAMBCandidatesDir()} {
		registers, err := files.NewDiscovery(dir).FindExcelFiles(".")
		if err != nil {
			return nil, err
		}
		for _, r := range registers {
			candidates, err := screening.LoadRegister(r.Path)
			if err != nil {
				logger.Warn("Skipping unreadable register",
					slog.String("file", r.Name),
					slog.String("error", err.Error()))
				continue
			}
			registered = append(registered, candidates...)
		}
	}
	logger.Info("Registers loaded", slog.Int("candidates", len(registered)))
	return registered, nil
}

func screeningRecords(report *domain.ScreeningReport) [][]string {
	records := make([][]string, 0, len(report.Candidates))
	for _, c := range report.Candidates {
		records = append(records, []string{
			strconv.Itoa(c.Rank),
			c.ExamNumber,
			c.FullName,
			c.Phone,
			c.State,
			c.BatchID,
			strconv.FormatFloat(c.Score, 'f', -1, 64),
		})
	}
	return records
}
