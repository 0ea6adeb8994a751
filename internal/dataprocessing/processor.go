package dataprocessing

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"examcli/internal/config"
	apperrors "examcli/internal/errors"
	"examcli/internal/grading"
	"examcli/pkg/contracts/domain"
)

// BuildOptions configures a mastersheet build for one semester.
type BuildOptions struct {
	Program  string
	Set      string
	Session  string
	Semester domain.Semester
	Rules    grading.Rules

	// PreviousStandings maps exam numbers to prior semesters' GPA and
	// credit units for CGPA computation.
	PreviousStandings map[string][]grading.SemesterStanding

	// Withdrawn lists exam numbers withdrawn in earlier semesters;
	// their rows are removed before computation.
	Withdrawn map[string]bool
}

// BuildMastersheet merges the parsed CA/OBJ/EXAM sheets into a
// mastersheet: per-course weighted totals, the upgrade rule, derived
// summary columns, CGPA, and the pass-first row ordering. It returns
// the sheet plus the exam numbers removed as previously withdrawn.
func BuildMastersheet(wb *RawWorkbook, courses []domain.Course, opts BuildOptions) (*domain.Mastersheet, []string, error) {
	if len(courses) == 0 {
		return nil, nil, apperrors.NewValidationError("semester has no courses in the catalog")
	}

	students, removed := mergeStudents(wb, opts.Withdrawn)
	if len(students) == 0 {
		return nil, nil, apperrors.NewParsingError("no student rows merged from sheets", nil).
			WithContext("path", wb.Path)
	}

	ms := &domain.Mastersheet{
		Program:       opts.Program,
		Set:           opts.Set,
		SemesterKey:   opts.Semester.Key,
		Session:       opts.Session,
		Courses:       courses,
		PassThreshold: opts.Rules.PassThreshold,
	}
	if opts.Rules.UpgradeEnabled() {
		ms.UpgradeMin = opts.Rules.UpgradeMin
	}

	codes := ms.CourseCodes()
	upgradedTotal := 0

	for _, merged := range students {
		student := domain.StudentResult{
			ExamNumber: merged.ExamNumber,
			Name:       merged.Name,
			Scores:     make(map[string]float64, len(codes)),
		}

		for _, code := range codes {
			student.Scores[code] = composeScore(merged, code)
		}

		upgradedTotal += opts.Rules.ApplyUpgrade(&student, codes)
		opts.Rules.Recompute(&student, courses)

		if prev, ok := opts.PreviousStandings[student.ExamNumber]; ok {
			student.CGPA = grading.CGPA(prev, student.GPA, student.CUPassed+student.CUFailed)
		} else {
			student.CGPA = student.GPA
		}

		ms.Students = append(ms.Students, student)
	}

	ms.UpgradedCount = upgradedTotal

	sortStudents(ms.Students)

	slog.Info("Mastersheet built",
		slog.String("semester", opts.Semester.Key),
		slog.String("set", opts.Set),
		slog.Int("students", len(ms.Students)),
		slog.Int("removed_withdrawn", len(removed)),
		slog.Int("upgraded_scores", upgradedTotal))

	return ms, removed, nil
}

// mergedScores is one student's raw scores collected across sheets.
type mergedScores struct {
	ExamNumber string
	Name       string
	BySheet    map[string]map[string]float64 // sheet kind -> code -> raw
}

// mergeStudents unions the per-sheet entries by exam number, dropping
// students withdrawn in earlier semesters.
func mergeStudents(wb *RawWorkbook, withdrawn map[string]bool) ([]mergedScores, []string) {
	byExamNo := make(map[string]*mergedScores)
	var order []string
	var removed []string

	for kind, sheet := range wb.Sheets {
		for examNo, entry := range sheet.Entries {
			if withdrawn[examNo] {
				continue
			}
			m, ok := byExamNo[examNo]
			if !ok {
				m = &mergedScores{
					ExamNumber: examNo,
					BySheet:    make(map[string]map[string]float64),
				}
				byExamNo[examNo] = m
				order = append(order, examNo)
			}
			if m.Name == "" && entry.Name != "" {
				m.Name = entry.Name
			}
			m.BySheet[kind] = entry.Scores
		}
	}

	for examNo := range withdrawn {
		if withdrawn[examNo] && appearsIn(wb, examNo) {
			removed = append(removed, examNo)
		}
	}
	sort.Strings(removed)

	sort.Strings(order)
	students := make([]mergedScores, 0, len(order))
	for _, examNo := range order {
		students = append(students, *byExamNo[examNo])
	}
	return students, removed
}

func appearsIn(wb *RawWorkbook, examNo string) bool {
	for _, sheet := range wb.Sheets {
		if _, ok := sheet.Entries[examNo]; ok {
			return true
		}
	}
	return false
}

// composeScore combines a course's CA/OBJ/EXAM raw marks into the
// final total: each component normalized to 100, continuous
// assessment weighted at 20%, the averaged OBJ+EXAM at 80%.
func composeScore(m mergedScores, code string) float64 {
	ca := normalizedComponent(m.BySheet["CA"], code, config.CAMaxScore)
	obj := normalizedComponent(m.BySheet["OBJ"], code, config.OBJMaxScore)
	exam := normalizedComponent(m.BySheet["EXAM"], code, config.ExamMaxScore)

	total := ca*config.CAWeight + (obj+exam)/2*(1-config.CAWeight)
	total = math.Round(total)
	if total > 100 {
		total = 100
	}
	return total
}

func normalizedComponent(scores map[string]float64, code string, max float64) float64 {
	if scores == nil {
		return 0
	}
	raw, ok := scores[code]
	if !ok {
		return 0
	}
	norm := raw / max * 100
	if norm > 100 {
		norm = 100
	}
	return norm
}

// sortStudents orders rows for the printed sheet: passed students
// first, then by number of failed courses, then by the failed codes,
// then by exam number for a stable order.
func sortStudents(students []domain.StudentResult) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := &students[i], &students[j]
		aFailed, bFailed := len(a.FailedCourses), len(b.FailedCourses)
		if (aFailed == 0) != (bFailed == 0) {
			return aFailed == 0
		}
		if aFailed != bFailed {
			return aFailed < bFailed
		}
		aKey := strings.Join(a.FailedCourses, ",")
		bKey := strings.Join(b.FailedCourses, ",")
		if aKey != bKey {
			return aKey < bKey
		}
		return a.ExamNumber < b.ExamNumber
	})
}
