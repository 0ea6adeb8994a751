// Package grading holds the college's scoring rules: the score-to-grade
// table, the management upgrade rule, and the per-student summary
// calculations (TCPE, GPA, CGPA, remarks, standing).
package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"examcli/internal/config"
	"examcli/pkg/contracts/domain"
)

// Grade converts a numeric score to its letter grade.
func Grade(score float64) string {
	switch {
	case score >= 70:
		return "A"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	case score >= 45:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

// GradePoint converts a numeric score to its grade point.
func GradePoint(score float64) float64 {
	switch {
	case score >= 70:
		return 5.0 // A
	case score >= 60:
		return 4.0 // B
	case score >= 50:
		return 3.0 // C
	case score >= 45:
		return 2.0 // D
	case score >= 40:
		return 1.0 // E
	default:
		return 0.0 // F
	}
}

// Rules bundles the thresholds applied during a processing run.
type Rules struct {
	// PassThreshold is the minimum total score counted as a pass.
	PassThreshold float64

	// UpgradeMin enables the upgrade rule when in 45..49: scores in
	// [UpgradeMin, 49] are raised to 50 before grading. 0 disables.
	UpgradeMin int
}

// NewRules builds Rules from grading configuration.
func NewRules(cfg config.GradingConfig) Rules {
	return Rules{
		PassThreshold: cfg.PassThreshold,
		UpgradeMin:    cfg.UpgradeMin,
	}
}

// UpgradeEnabled reports whether the upgrade rule is active.
func (r Rules) UpgradeEnabled() bool {
	return r.UpgradeMin >= 45 && r.UpgradeMin <= 49
}

// Upgradable reports whether a score falls inside the upgrade band.
func (r Rules) Upgradable(score float64) bool {
	return r.UpgradeEnabled() && score >= float64(r.UpgradeMin) && score <= 49
}

// ApplyUpgrade raises every course score inside the upgrade band to 50,
// recording the original value in UpgradedFrom. Returns the number of
// scores raised.
func (r Rules) ApplyUpgrade(s *domain.StudentResult, codes []string) int {
	if !r.UpgradeEnabled() {
		return 0
	}

	upgraded := 0
	for _, code := range codes {
		score, ok := s.Scores[code]
		if !ok || !r.Upgradable(score) {
			continue
		}
		if s.UpgradedFrom == nil {
			s.UpgradedFrom = make(map[string]float64)
		}
		s.UpgradedFrom[code] = score
		s.Scores[code] = 50
		upgraded++
	}
	return upgraded
}

// Recompute fills every derived column of a student row from the
// current course scores: failed courses, credit units passed/failed,
// TCPE, GPA, average, remarks and standing.
func (r Rules) Recompute(s *domain.StudentResult, courses []domain.Course) {
	var (
		failed      []string
		cuPassed    int
		cuFailed    int
		tcpe        float64
		totalScore  float64
		scoredCount int
	)

	for _, course := range courses {
		score := s.Scores[course.Code]
		totalScore += score
		scoredCount++

		tcpe += GradePoint(score) * float64(course.CreditUnits)
		if score >= r.PassThreshold {
			cuPassed += course.CreditUnits
		} else {
			cuFailed += course.CreditUnits
			failed = append(failed, course.Code)
		}
	}

	sort.Strings(failed)
	s.FailedCourses = failed
	s.CUPassed = cuPassed
	s.CUFailed = cuFailed
	s.TCPE = round1(tcpe)

	totalCU := cuPassed + cuFailed
	if totalCU > 0 {
		s.GPA = round2(tcpe / float64(totalCU))
	} else {
		s.GPA = 0
	}
	if scoredCount > 0 {
		s.Average = round2(totalScore / float64(scoredCount))
	} else {
		s.Average = 0
	}

	s.Remarks = FormatRemarks(failed)
	s.Status = r.Standing(s, totalCU)
}

// Standing classifies a student row against the NMCN/NBTE progression
// rules: pass all courses, carry over, probation, or advised to
// withdraw when more than 45% of credit units are failed.
func (r Rules) Standing(s *domain.StudentResult, totalCU int) domain.StudentStatus {
	if s.CUFailed == 0 {
		return domain.StatusPassed
	}

	failedShare := 0.0
	if totalCU > 0 {
		failedShare = float64(s.CUFailed) / float64(totalCU)
	}

	switch {
	case failedShare > config.MinProgressCreditShare:
		return domain.StatusWithdrawn
	case s.GPA >= config.ProbationGPA:
		return domain.StatusCarryover
	default:
		return domain.StatusProbation
	}
}

// FormatRemarks renders the REMARKS cell: "Passed" or the sorted list
// of failed course codes.
func FormatRemarks(failed []string) string {
	if len(failed) == 0 {
		return "Passed"
	}
	sorted := append([]string(nil), failed...)
	sort.Strings(sorted)
	return fmt.Sprintf("Failed: %s", strings.Join(sorted, ", "))
}

// SemesterStanding is one prior semester's contribution to CGPA.
type SemesterStanding struct {
	GPA         float64
	CreditUnits int
}

// CGPA computes the cumulative GPA across previous semesters plus the
// current one, weighted by credit units.
func CGPA(previous []SemesterStanding, currentGPA float64, currentCU int) float64 {
	totalPoints := currentGPA * float64(currentCU)
	totalCU := currentCU

	for _, prev := range previous {
		totalPoints += prev.GPA * float64(prev.CreditUnits)
		totalCU += prev.CreditUnits
	}

	if totalCU == 0 {
		return 0
	}
	return round2(totalPoints / float64(totalCU))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
