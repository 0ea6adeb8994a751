package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for the EXAMS_INTERNAL tree:
//
//	EXAMS_INTERNAL/
//	  ├── <PROGRAM>-COURSES/
//	  │     └── course-code-creditUnit.xlsx
//	  ├── <PROGRAM>/<SET>/
//	  │     ├── RAW_RESULTS/          (raw CA/OBJ/EXAM workbooks)
//	  │     ├── CLEAN_RESULTS/        (mastersheet bundles)
//	  │     └── CARRYOVER_RECORDS/    (resit exports)
//	  └── PUTME_RESULT/
//	        ├── RAW_PUTME_RESULT/
//	        ├── CANDIDATE_BATCHES/
//	        ├── UTME_CANDIDATES/      (JAMB lists)
//	        └── CLEAN_PUTME_RESULT/
type Paths struct {
	BaseDir string
	LogsDir string
}

// NewPaths resolves the base directory from configuration. Relative
// paths are anchored at the executable directory, never the CWD.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	logs := cfg.LogsDir

	if !filepath.IsAbs(base) || !filepath.IsAbs(logs) {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		exeDir := filepath.Dir(exe)
		if !filepath.IsAbs(base) {
			base = filepath.Join(exeDir, base)
		}
		if !filepath.IsAbs(logs) {
			logs = filepath.Join(exeDir, logs)
		}
	}

	return &Paths{BaseDir: base, LogsDir: logs}, nil
}

// SetDir returns the directory of one set of one program.
func (p *Paths) SetDir(program, set string) string {
	return filepath.Join(p.BaseDir, program, set)
}

// RawResultsDir returns the raw-results directory of a set.
func (p *Paths) RawResultsDir(program, set string) string {
	return filepath.Join(p.SetDir(program, set), "RAW_RESULTS")
}

// CleanResultsDir returns the clean-results directory of a set.
func (p *Paths) CleanResultsDir(program, set string) string {
	return filepath.Join(p.SetDir(program, set), "CLEAN_RESULTS")
}

// CarryoverRecordsDir returns the carryover-records directory of a set.
func (p *Paths) CarryoverRecordsDir(program, set string) string {
	return filepath.Join(p.SetDir(program, set), "CARRYOVER_RECORDS")
}

// CourseCatalogPath returns the course workbook for a program.
func (p *Paths) CourseCatalogPath(program string) string {
	return filepath.Join(p.BaseDir, program+"-COURSES", "course-code-creditUnit.xlsx")
}

// ScreeningBaseDir returns the root of the UTME/PUTME tree.
func (p *Paths) ScreeningBaseDir() string {
	return filepath.Join(p.BaseDir, "PUTME_RESULT")
}

// RawScreeningDir returns the raw screening results directory.
func (p *Paths) RawScreeningDir() string {
	return filepath.Join(p.ScreeningBaseDir(), "RAW_PUTME_RESULT")
}

// CandidateBatchesDir returns the candidate batch register directory.
func (p *Paths) CandidateBatchesDir() string {
	return filepath.Join(p.ScreeningBaseDir(), "CANDIDATE_BATCHES")
}

// JAMBCandidatesDir returns the JAMB candidate list directory.
func (p *Paths) JAMBCandidatesDir() string {
	return filepath.Join(p.ScreeningBaseDir(), "UTME_CANDIDATES")
}

// CleanScreeningDir returns the cleaned screening output directory.
func (p *Paths) CleanScreeningDir() string {
	return filepath.Join(p.ScreeningBaseDir(), "CLEAN_PUTME_RESULT")
}

// GetLogPath returns a path within the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureSetDirectories creates the per-set directories if missing.
func (p *Paths) EnsureSetDirectories(program, set string) error {
	directories := []string{
		p.RawResultsDir(program, set),
		p.CleanResultsDir(program, set),
		p.CarryoverRecordsDir(program, set),
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureScreeningDirectories creates the screening tree if missing.
func (p *Paths) EnsureScreeningDirectories() error {
	directories := []string{
		p.RawScreeningDir(),
		p.CandidateBatchesDir(),
		p.JAMBCandidatesDir(),
		p.CleanScreeningDir(),
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ListSets returns the set directories available for a program,
// skipping the course-catalog directory.
func (p *Paths) ListSets(program string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(p.BaseDir, program))
	if err != nil {
		return nil, fmt.Errorf("failed to read program directory: %w", err)
	}

	var sets []string
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != program+"-COURSES" {
			sets = append(sets, entry.Name())
		}
	}
	return sets, nil
}
