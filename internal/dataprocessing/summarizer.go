package dataprocessing

import (
	"examcli/pkg/contracts/domain"
)

// Summarize aggregates a mastersheet into the cohort summary printed
// under the result table.
func Summarize(ms *domain.Mastersheet, removedWithdrawn int) domain.CohortSummary {
	summary := domain.CohortSummary{
		TotalStudents:    len(ms.Students),
		RemovedWithdrawn: removedWithdrawn,
		UpgradedScores:   ms.UpgradedCount,
		FailsPerCourse:   make(map[string]int, len(ms.Courses)),
	}

	for _, code := range ms.CourseCodes() {
		summary.FailsPerCourse[code] = 0
	}

	for _, student := range ms.Students {
		switch student.Status {
		case domain.StatusPassed:
			summary.PassedAll++
		case domain.StatusCarryover:
			summary.CarryoverStudents++
		case domain.StatusProbation:
			summary.Probation++
		case domain.StatusWithdrawn:
			summary.AdvisedToWithdraw++
		}

		for _, code := range student.FailedCourses {
			summary.FailsPerCourse[code]++
		}
	}

	return summary
}
