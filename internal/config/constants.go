package config

// TimestampFormat is used for output directories, bundles and backups.
const TimestampFormat = "2006-01-02_150405"

// CollegeName appears on every report banner.
const CollegeName = "FCT COLLEGE OF NURSING SCIENCES, GWAGWALADA-ABUJA"

// Program identifiers.
const (
	ProgramND = "ND" // National Diploma
	ProgramBN = "BN" // Basic Nursing
	ProgramBM = "BM" // Basic Midwifery
)

// SemesterOrder lists the processing order of semester keys per
// program. Keys match the sheet names of the course catalog workbook.
var SemesterOrder = map[string][]string{
	ProgramND: {
		"ND-FIRST-YEAR-FIRST-SEMESTER",
		"ND-FIRST-YEAR-SECOND-SEMESTER",
		"ND-SECOND-YEAR-FIRST-SEMESTER",
		"ND-SECOND-YEAR-SECOND-SEMESTER",
	},
	ProgramBN: {
		"N-FIRST-YEAR-FIRST-SEMESTER",
		"N-FIRST-YEAR-SECOND-SEMESTER",
		"N-SECOND-YEAR-FIRST-SEMESTER",
		"N-SECOND-YEAR-SECOND-SEMESTER",
		"N-THIRD-YEAR-FIRST-SEMESTER",
		"N-THIRD-YEAR-SECOND-SEMESTER",
	},
	ProgramBM: {
		"M-FIRST-YEAR-FIRST-SEMESTER",
		"M-FIRST-YEAR-SECOND-SEMESTER",
		"M-SECOND-YEAR-FIRST-SEMESTER",
		"M-SECOND-YEAR-SECOND-SEMESTER",
		"M-THIRD-YEAR-FIRST-SEMESTER",
		"M-THIRD-YEAR-SECOND-SEMESTER",
	},
}

// Raw score sheet names expected in every raw results workbook.
var RawScoreSheets = []string{"CA", "OBJ", "EXAM"}

// Raw score denominators: CA and OBJ are marked out of 20, the written
// exam out of 80. Totals weight continuous assessment at 20%.
const (
	CAMaxScore   = 20.0
	OBJMaxScore  = 20.0
	ExamMaxScore = 80.0
	CAWeight     = 0.2
)

// MinProgressCreditShare is the share of registered credit units a
// student must pass to avoid being advised to withdraw.
const MinProgressCreditShare = 0.45

// ProbationGPA is the GPA below which a carryover student is placed on
// probation.
const ProbationGPA = 2.0
