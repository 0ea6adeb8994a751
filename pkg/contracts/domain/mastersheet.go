package domain

// StudentStatus classifies a student's standing after a semester.
type StudentStatus string

const (
	StatusPassed    StudentStatus = "Passed"
	StatusCarryover StudentStatus = "Carryover"
	StatusProbation StudentStatus = "Probation"
	StatusWithdrawn StudentStatus = "Withdrawn"
)

// StudentResult represents a single student's row on a mastersheet:
// per-course totals plus the computed summary columns.
type StudentResult struct {
	ExamNumber string             `json:"exam_number" validate:"required"`
	Name       string             `json:"name"`
	Scores     map[string]float64 `json:"scores" validate:"required"`

	// UpgradedFrom records the pre-upgrade score for every cell the
	// upgrade rule raised, keyed by course code.
	UpgradedFrom map[string]float64 `json:"upgraded_from,omitempty"`

	FailedCourses []string      `json:"failed_courses,omitempty"`
	CUPassed      int           `json:"cu_passed" validate:"min=0"`
	CUFailed      int           `json:"cu_failed" validate:"min=0"`
	TCPE          float64       `json:"tcpe" validate:"min=0"`
	GPA           float64       `json:"gpa" validate:"min=0,max=5"`
	CGPA          float64       `json:"cgpa,omitempty" validate:"min=0,max=5"`
	Average       float64       `json:"average" validate:"min=0,max=100"`
	Remarks       string        `json:"remarks"`
	Status        StudentStatus `json:"status"`
}

// Score returns the student's total for a course code, with ok=false
// when the course is absent from the row.
func (s *StudentResult) Score(code string) (float64, bool) {
	v, ok := s.Scores[code]
	return v, ok
}

// Mastersheet is the master result sheet for one semester of one set:
// every student's per-course totals and computed summary columns.
type Mastersheet struct {
	Program     string          `json:"program" validate:"required"`
	Set         string          `json:"set" validate:"required"`
	SemesterKey string          `json:"semester_key" validate:"required"`
	Session     string          `json:"session"`
	Courses     []Course        `json:"courses" validate:"required,dive"`
	Students    []StudentResult `json:"students" validate:"dive"`

	PassThreshold float64 `json:"pass_threshold" validate:"min=0,max=100"`
	UpgradeMin    int     `json:"upgrade_min,omitempty"`
	UpgradedCount int     `json:"upgraded_count,omitempty"`
}

// TotalCreditUnits sums the credit units of the sheet's courses.
func (m *Mastersheet) TotalCreditUnits() int {
	total := 0
	for _, c := range m.Courses {
		total += c.CreditUnits
	}
	return total
}

// CourseCodes returns the course codes in catalog order.
func (m *Mastersheet) CourseCodes() []string {
	codes := make([]string, 0, len(m.Courses))
	for _, c := range m.Courses {
		codes = append(codes, c.Code)
	}
	return codes
}

// FindStudent returns the index of the student with the given exam
// number, or -1 when absent.
func (m *Mastersheet) FindStudent(examNumber string) int {
	for i := range m.Students {
		if m.Students[i].ExamNumber == examNumber {
			return i
		}
	}
	return -1
}

// CohortSummary aggregates a semester's outcomes for the summary block
// printed under the mastersheet.
type CohortSummary struct {
	TotalStudents     int `json:"total_students"`
	PassedAll         int `json:"passed_all"`
	CarryoverStudents int `json:"carryover_students"`
	Probation         int `json:"probation"`
	AdvisedToWithdraw int `json:"advised_to_withdraw"`
	RemovedWithdrawn  int `json:"removed_withdrawn"`
	UpgradedScores    int `json:"upgraded_scores"`

	// FailsPerCourse counts failing scores per course code.
	FailsPerCourse map[string]int `json:"fails_per_course"`
}
