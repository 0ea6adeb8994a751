package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"examcli/pkg/contracts/domain"
)

func TestDetectSemester(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		program  string
		wantKey  string
		wantCode string
	}{
		{
			name:     "year qualified hyphenated",
			filename: "ND-SECOND-YEAR-FIRST-SEMESTER-RESULTS.xlsx",
			program:  "ND",
			wantKey:  "ND-SECOND-YEAR-FIRST-SEMESTER",
			wantCode: "NDII",
		},
		{
			name:     "underscored variant",
			filename: "raw_FIRST_YEAR_SECOND_SEMESTER_2024.xlsx",
			program:  "ND",
			wantKey:  "ND-FIRST-YEAR-SECOND-SEMESTER",
			wantCode: "NDI",
		},
		{
			name:     "bare second fallback",
			filename: "second semester results.xlsx",
			program:  "BN",
			wantKey:  "N-FIRST-YEAR-SECOND-SEMESTER",
			wantCode: "NI",
		},
		{
			name:     "bare first must not shadow second",
			filename: "FIRST-YEAR-SECOND-SEMESTER.xlsx",
			program:  "BN",
			wantKey:  "N-FIRST-YEAR-SECOND-SEMESTER",
			wantCode: "NI",
		},
		{
			name:     "third year for six semester program",
			filename: "THIRD-YEAR-SECOND-SEMESTER-BM.xlsx",
			program:  "BM",
			wantKey:  "M-THIRD-YEAR-SECOND-SEMESTER",
			wantCode: "MIII",
		},
		{
			name:     "unrecognizable defaults to first semester",
			filename: "results-final.xlsx",
			program:  "ND",
			wantKey:  "ND-FIRST-YEAR-FIRST-SEMESTER",
			wantCode: "NDI",
		},
		{
			name:     "third year out of range for ND defaults",
			filename: "THIRD-YEAR-FIRST-SEMESTER.xlsx",
			program:  "ND",
			wantKey:  "ND-FIRST-YEAR-FIRST-SEMESTER",
			wantCode: "NDI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSemester(tt.filename, tt.program)
			assert.Equal(t, tt.wantKey, got.Key)
			assert.Equal(t, tt.wantCode, got.LevelCode)
		})
	}
}

func TestSemesterInfo(t *testing.T) {
	info := SemesterInfo("N-THIRD-YEAR-FIRST-SEMESTER", "BN")

	assert.Equal(t, 3, info.Year)
	assert.Equal(t, 1, info.Number)
	assert.Equal(t, "YEAR THREE", info.LevelDisplay)
	assert.Equal(t, "FIRST SEMESTER", info.SemesterDisplay)
	assert.Equal(t, "NIII", info.LevelCode)
}

func TestMatchSemesterSheet(t *testing.T) {
	catalog := &domain.Catalog{
		Program: "ND",
		Semesters: map[string][]domain.Course{
			"ND-FIRST-YEAR-FIRST-SEMESTER":  {{Code: "GNS101"}},
			"ND-FIRST-YEAR-SECOND-SEMESTER": {{Code: "NUS121"}},
		},
	}

	t.Run("containment", func(t *testing.T) {
		got := MatchSemesterSheet("SET47_ND-FIRST-YEAR-SECOND-SEMESTER_RAW.xlsx", catalog, "ND")
		assert.Equal(t, "ND-FIRST-YEAR-SECOND-SEMESTER", got)
	})

	t.Run("detection fallback", func(t *testing.T) {
		got := MatchSemesterSheet("1st_year_2nd_semester.xlsx", catalog, "ND")
		assert.Equal(t, "ND-FIRST-YEAR-SECOND-SEMESTER", got)
	})

	t.Run("no match", func(t *testing.T) {
		empty := &domain.Catalog{Program: "ND", Semesters: map[string][]domain.Course{}}
		assert.Equal(t, "", MatchSemesterSheet("whatever.xlsx", empty, "ND"))
	})
}
