// Command processor builds the semester mastersheets of one set from
// its raw CA/OBJ/EXAM workbooks and packs them into a timestamped
// result bundle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"examcli/internal/config"
	"examcli/internal/dataprocessing"
	"examcli/internal/exporter"
	"examcli/internal/files"
	"examcli/internal/grading"
	"examcli/internal/infrastructure"
	"examcli/pkg/contracts/domain"
)

func main() {
	program := flag.String("program", "", "program to process: ND, BN or BM (defaults to configuration)")
	set := flag.String("set", "", "set directory to process, e.g. SET47")
	session := flag.String("session", "", "academic session printed on banners, e.g. 2023/2024")
	passThreshold := flag.Float64("pass", -1, "pass threshold override (0-100)")
	upgradeMin := flag.Int("upgrade", -1, "upgrade band minimum (45-49), 0 disables the rule")
	slips := flag.Bool("slips", true, "generate per-student PDF result slips")
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
	if *upgradeMin >= 0 {
		cfg.Grading.UpgradeMin = *upgradeMin
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
	cfg.Logging.FilePath = paths.GetLogPath("processor.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger = infrastructure.LoggerFromContext(ctx)

	logger.Info("Starting mastersheet processing",
		slog.String("program", cfg.Processing.Program),
		slog.String("set", cfg.Processing.SelectedSet),
		slog.String("session", *session),
		slog.Float64("pass_threshold", cfg.Grading.PassThreshold),
		slog.Int("upgrade_min", cfg.Grading.UpgradeMin))

	if err := run(ctx, cfg, paths, *session, *slips); err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths, session string, slips bool) error {
	logger := infrastructure.LoggerFromContext(ctx)
	program := cfg.Processing.Program
	set := cfg.Processing.SelectedSet
	rules := grading.NewRules(cfg.Grading)

	if err := paths.EnsureSetDirectories(program, set); err != nil {
		return err
	}

	catalog, err := dataprocessing.LoadCatalog(paths.CourseCatalogPath(program), program)
	if err != nil {
		return err
	}

	rawDir := paths.RawResultsDir(program, set)
	rawFiles, err := files.NewDiscovery(rawDir).FindExcelFiles(".")
	if err != nil {
		return err
	}
	if len(rawFiles) == 0 {
		return fmt.Errorf("no raw workbooks in %s", rawDir)
	}
	fmt.Printf("Found %d raw workbooks\n", len(rawFiles))

	bySemester := groupBySemester(rawFiles, catalog, program, logger)

	parsed, err := parseWorkbooks(ctx, bySemester, catalog, cfg.Processing.Workers)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp("", "results-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	manifest := files.NewRunManifest(infrastructure.GetRunID(ctx), "processor", program, set, session)
	manifest.Config["pass_threshold"] = fmt.Sprintf("%.0f", rules.PassThreshold)
	manifest.Config["upgrade_min"] = fmt.Sprintf("%d", rules.UpgradeMin)

	standings := make(map[string][]grading.SemesterStanding)
	withdrawn := make(map[string]bool)
	csvWriter := exporter.NewCSVWriter()
	msExporter := exporter.NewMastersheetExporter()
	slipWriter := exporter.NewSlipWriter()

	processedSemesters := 0
	for _, key := range config.SemesterOrder[program] {
		wb, ok := parsed[key]
		if !ok {
			continue
		}
		stepStart := time.Now()
		semester := dataprocessing.SemesterInfo(key, program)
		courses := catalog.Courses(key)

		ms, removed, err := dataprocessing.BuildMastersheet(wb, courses, dataprocessing.BuildOptions{
			Program:           program,
			Set:               set,
			Session:           session,
			Semester:          semester,
			Rules:             rules,
			PreviousStandings: standings,
			Withdrawn:         withdrawn,
		})
		if err != nil {
			manifest.RecordStep("build_"+key, stepStart, err)
			return err
		}
		summary := dataprocessing.Summarize(ms, len(removed))

		sheetName := exporter.MastersheetFileName(key)
		if err := msExporter.Export(filepath.Join(staging, sheetName), ms, semester, summary); err != nil {
			manifest.RecordStep("export_"+key, stepStart, err)
			return err
		}
		csvName := fmt.Sprintf("mastersheet_%s.csv", key)
		if err := csvWriter.WriteMastersheetCSV(filepath.Join(staging, csvName), ms); err != nil {
			return err
		}
		outputFiles := []string{sheetName, csvName}

		if slips {
			slipDir := filepath.Join(staging, "slips", key)
			written, err := slipWriter.WriteSlips(slipDir, ms, semester)
			if err != nil {
				return err
			}
			manifest.AddOutput("pdf_slips_"+key, &files.OutputInfo{
				Location:  filepath.Join("slips", key),
				FileCount: len(written),
				Files:     written,
				CreatedBy: "processor",
			})
		}

		for _, student := range ms.Students {
			standings[student.ExamNumber] = append(standings[student.ExamNumber], grading.SemesterStanding{
				GPA:         student.GPA,
				CreditUnits: student.CUPassed + student.CUFailed,
			})
			if student.Status == domain.StatusWithdrawn {
				withdrawn[student.ExamNumber] = true
			}
		}

		manifest.AddOutput("mastersheet_"+key, &files.OutputInfo{
			Location:  ".",
			FileCount: len(outputFiles),
			Files:     outputFiles,
			CreatedBy: "processor",
		})
		manifest.RecordStep("process_"+key, stepStart, nil)
		processedSemesters++

		fmt.Printf("Processed %s: %d students, %d passed all, %d carryover\n",
			key, summary.TotalStudents, summary.PassedAll, summary.CarryoverStudents)
	}

	if processedSemesters == 0 {
		return fmt.Errorf("no raw workbook matched any semester of program %s", program)
	}

	manifest.Complete(nil)
	if err := manifest.Save(filepath.Join(staging, "manifest.json")); err != nil {
		return err
	}

	stamp := time.Now().Format(config.TimestampFormat)
	bundlePath := filepath.Join(paths.CleanResultsDir(program, set), fmt.Sprintf("%s_RESULT-%s.zip", set, stamp))
	if err := files.CreateZipFromDir(bundlePath, staging); err != nil {
		return err
	}

	logger.Info("Result bundle written",
		slog.String("bundle", bundlePath),
		slog.Int("semesters", processedSemesters))
	fmt.Printf("Result bundle: %s\n", bundlePath)
	return nil
}

// groupBySemester maps each raw workbook to its semester key; when
// two files claim the same semester the first wins.
func groupBySemester(rawFiles []files.FileInfo, catalog *domain.Catalog, program string, logger *slog.Logger) map[string]string {
	bySemester := make(map[string]string)
	for _, f := range rawFiles {
		key := dataprocessing.MatchSemesterSheet(f.Name, catalog, program)
		if key == "" {
			logger.Warn("Raw workbook matches no semester",
				slog.String("file", f.Name))
			continue
		}
		if prev, ok := bySemester[key]; ok {
			logger.Warn("Duplicate workbook for semester, keeping first",
				slog.String("semester", key),
				slog.String("kept", filepath.Base(prev)),
				slog.String("ignored", f.Name))
			continue
		}
		bySemester[key] = f.Path
	}
	return bySemester
}

// parseWorkbooks parses the matched workbooks concurrently, bounded
// by the configured worker count.
func parseWorkbooks(ctx context.Context, bySemester map[string]string, catalog *domain.Catalog, workers int) (map[string]*dataprocessing.RawWorkbook, error) {
	type result struct {
		key string
		wb  *dataprocessing.RawWorkbook
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan result, len(bySemester))
	for key, path := range bySemester {
		key, path := key, path
		g.Go(func() error {
			wb, err := dataprocessing.ParseRawWorkbook(path, catalog.Courses(key), config.RawScoreSheets)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
			}
			results <- result{key: key, wb: wb}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	parsed := make(map[string]*dataprocessing.RawWorkbook, len(bySemester))
	for r := range results {
		parsed[r.key] = r.wb
	}
	return parsed, nil
}
