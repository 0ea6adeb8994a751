package domain

// Course represents a single course in a semester's catalog.
// The catalog workbook carries one sheet per semester with columns
// COURSE CODE / COURSE TITLE / CU.
type Course struct {
	Code        string `json:"code" validate:"required"`
	Title       string `json:"title" validate:"required"`
	CreditUnits int    `json:"credit_units" validate:"min=1"`
}

// Catalog holds the course lists for every semester of a program,
// keyed by the catalog sheet name (e.g. "ND-FIRST-YEAR-FIRST-SEMESTER").
type Catalog struct {
	Program   string              `json:"program"`
	Semesters map[string][]Course `json:"semesters" validate:"required"`
}

// Courses returns the course list for a semester key, or nil if the
// semester is not in the catalog.
func (c *Catalog) Courses(semesterKey string) []Course {
	if c == nil {
		return nil
	}
	return c.Semesters[semesterKey]
}

// TotalCreditUnits sums the credit units of a semester's courses.
func (c *Catalog) TotalCreditUnits(semesterKey string) int {
	total := 0
	for _, course := range c.Courses(semesterKey) {
		total += course.CreditUnits
	}
	return total
}

// CreditUnits returns a code -> credit-unit lookup for a semester.
func (c *Catalog) CreditUnits(semesterKey string) map[string]int {
	courses := c.Courses(semesterKey)
	units := make(map[string]int, len(courses))
	for _, course := range courses {
		units[course.Code] = course.CreditUnits
	}
	return units
}

// Semester describes one semester of a program together with the
// display strings used on report banners.
type Semester struct {
	Key             string `json:"key" validate:"required"`
	Year            int    `json:"year" validate:"min=1"`
	Number          int    `json:"number" validate:"min=1,max=2"`
	LevelDisplay    string `json:"level_display"`
	SemesterDisplay string `json:"semester_display"`
	LevelCode       string `json:"level_code"`
}
