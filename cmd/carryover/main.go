// Command carryover applies resit outcomes to the latest published
// result bundle of a set: passing resit scores replace failing cells,
// every touched row is recomputed and an UPDATED_ bundle is written
// next to the original.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"examcli/internal/carryover"
	"examcli/internal/config"
	"examcli/internal/files"
	"examcli/internal/grading"
	"examcli/internal/infrastructure"
)

func main() {
	program := flag.String("program", "", "program of the set: ND, BN or BM (defaults to configuration)")
	set := flag.String("set", "", "set whose bundle to update, e.g. SET47")
	records := flag.String("records", "", "carryover records JSON (defaults to the newest file in CARRYOVER_RECORDS)")
	passThreshold := flag.Float64("pass", -1, "pass threshold override (0-100)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *program != "" {
		cfg.Processing.Program = *program
	}
	if *set != "" {
		cfg.Processing.SelectedSet = *set
	}
	if *passThreshold >= 0 {
		cfg.Grading.PassThreshold = *passThreshold
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Processing.SelectedSet == "" {
		slog.Error("No set selected; pass -set or EXAM_PROCESSING_SELECTED_SET")
		os.Exit(1)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	cfg.Logging.FilePath = paths.GetLogPath("carryover.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	recordsPath := *records
	if recordsPath == "" {
		recordsPath, err = latestRecords(paths, cfg.Processing.Program, cfg.Processing.SelectedSet)
		if err != nil {
			logger.Error("No carryover records found", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Starting carryover reconciliation",
		slog.String("program", cfg.Processing.Program),
		slog.String("set", cfg.Processing.SelectedSet),
		slog.String("records", recordsPath))

	updater := carryover.NewUpdater(paths, grading.NewRules(cfg.Grading))
	report, err := updater.UpdateSet(ctx, cfg.Processing.Program, cfg.Processing.SelectedSet, recordsPath)
	if err != nil {
		logger.Error("Carryover update failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Students matched: %d\n", report.StudentsMatched)
	fmt.Printf("Scores applied: %d (skipped %d)\n", report.ScoresApplied, report.ScoresSkipped)
	if len(report.Unmatched) > 0 {
		fmt.Printf("Unmatched exam numbers: %s\n", strings.Join(report.Unmatched, ", "))
	}
	fmt.Printf("Backup: %s\n", report.BackupPath)
	fmt.Printf("Updated bundle: %s\n", report.UpdatedBundle)
}

// latestRecords picks the newest JSON export in the set's carryover
// records directory.
func latestRecords(paths *config.Paths, program, set string) (string, error) {
	dir := paths.CarryoverRecordsDir(program, set)
	matches, err := files.NewDiscovery(dir).FindFilesByPattern(".", "*.json")
	if err != nil {
		return "", err
	}
	latest, ok := files.GetLatestFile(matches)
	if !ok {
		return "", fmt.Errorf("no carryover records in %s", dir)
	}
	return filepath.Join(dir, latest.Name), nil
}
