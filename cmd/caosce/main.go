// Command caosce merges per-station CAOSCE exports into one workbook:
// one row per candidate with every station score, the total and the
// percentage, with incomplete candidates flagged.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"examcli/internal/config"
	"examcli/internal/exporter"
	"examcli/internal/files"
	"examcli/internal/infrastructure"
	"examcli/internal/screening"
)

func main() {
	inDir := flag.String("in", "", "directory holding the per-station exports (required)")
	outFile := flag.String("out", "", "output workbook path (defaults to CAOSCE_<timestamp>.xlsx next to the input)")
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
	cfg.Logging.FilePath = paths.GetLogPath("caosce.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	if *inDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(ctx, *inDir, *outFile); err != nil {
		logger.Error("CAOSCE merge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, inDir, outFile string) error {
	logger := infrastructure.LoggerFromContext(ctx)

	stationFiles, err := files.NewDiscovery(inDir).FindExcelFiles(".")
	if err != nil {
		return err
	}
	if len(stationFiles) == 0 {
		return fmt.Errorf("no station exports in %s", inDir)
	}

	var inputs []string
	for _, f := range stationFiles {
		inputs = append(inputs, f.Path)
	}

	results, err := screening.MergeCAOSCE(inputs)
	if err != nil {
		return err
	}

	if outFile == "" {
		stamp := time.Now().Format(config.TimestampFormat)
		outFile = filepath.Join(inDir, fmt.Sprintf("CAOSCE_%s.xlsx", stamp))
	}
	if err := exporter.NewScreeningExporter().ExportCAOSCE(outFile, results); err != nil {
		return err
	}

	incomplete := 0
	for _, r := range results {
		if len(r.Missing) > 0 {
			incomplete++
		}
	}

	logger.Info("CAOSCE workbook written",
		slog.String("path", outFile),
		slog.Int("candidates", len(results)),
		slog.Int("incomplete", incomplete))
	fmt.Printf("Merged %d candidates from %d station files (%d incomplete)\n",
		len(results), len(inputs), incomplete)
	fmt.Printf("Output: %s\n", outFile)
	return nil
}
