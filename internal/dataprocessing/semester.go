package dataprocessing

import (
	"strings"

	"examcli/internal/config"
	"examcli/pkg/contracts/domain"
)

// semesterPattern maps a filename fragment to a year/semester pair.
type semesterPattern struct {
	fragments []string
	year      int
	number    int
}

// Checked in order; the year-qualified patterns must come before the
// bare FIRST/SECOND fallbacks.
var semesterPatterns = []semesterPattern{
	{[]string{"FIRST-YEAR-FIRST-SEMESTER", "FIRST_YEAR_FIRST_SEMESTER"}, 1, 1},
	{[]string{"FIRST-YEAR-SECOND-SEMESTER", "FIRST_YEAR_SECOND_SEMESTER"}, 1, 2},
	{[]string{"SECOND-YEAR-FIRST-SEMESTER", "SECOND_YEAR_FIRST_SEMESTER"}, 2, 1},
	{[]string{"SECOND-YEAR-SECOND-SEMESTER", "SECOND_YEAR_SECOND_SEMESTER"}, 2, 2},
	{[]string{"THIRD-YEAR-FIRST-SEMESTER", "THIRD_YEAR_FIRST_SEMESTER"}, 3, 1},
	{[]string{"THIRD-YEAR-SECOND-SEMESTER", "THIRD_YEAR_SECOND_SEMESTER"}, 3, 2},
	{[]string{"FIRST SEMESTER", "FIRST"}, 1, 1},
	{[]string{"SECOND SEMESTER", "SECOND"}, 1, 2},
}

var yearDisplay = map[int]string{1: "YEAR ONE", 2: "YEAR TWO", 3: "YEAR THREE"}
var semesterDisplay = map[int]string{1: "FIRST SEMESTER", 2: "SECOND SEMESTER"}

// levelCode returns the roman level tag used on banners (NDI, NDII...).
func levelCode(program string, year int) string {
	roman := map[int]string{1: "I", 2: "II", 3: "III"}
	return program + roman[year]
}

// DetectSemester infers the semester from a raw results filename.
// Unrecognizable names default to the program's first semester, which
// mirrors how mislabelled uploads were historically handled.
func DetectSemester(filename, program string) domain.Semester {
	upper := strings.ToUpper(filename)

	order := config.SemesterOrder[program]
	for _, p := range semesterPatterns {
		for _, frag := range p.fragments {
			if !strings.Contains(upper, frag) {
				continue
			}
			// Bare "FIRST" must not shadow "FIRST-YEAR-SECOND-...".
			if frag == "FIRST" && strings.Contains(upper, "SECOND") {
				continue
			}
			key := semesterKeyFor(order, p.year, p.number)
			if key == "" {
				continue
			}
			return domain.Semester{
				Key:             key,
				Year:            p.year,
				Number:          p.number,
				LevelDisplay:    yearDisplay[p.year],
				SemesterDisplay: semesterDisplay[p.number],
				LevelCode:       levelCode(program, p.year),
			}
		}
	}

	return domain.Semester{
		Key:             order[0],
		Year:            1,
		Number:          1,
		LevelDisplay:    yearDisplay[1],
		SemesterDisplay: semesterDisplay[1],
		LevelCode:       levelCode(program, 1),
	}
}

// semesterKeyFor finds the ordered key matching a year/semester pair.
func semesterKeyFor(order []string, year, number int) string {
	idx := (year-1)*2 + (number - 1)
	if idx < 0 || idx >= len(order) {
		return ""
	}
	return order[idx]
}

// SemesterInfo resolves display information for a known semester key.
func SemesterInfo(key, program string) domain.Semester {
	order := config.SemesterOrder[program]
	for i, k := range order {
		if k == key {
			year := i/2 + 1
			number := i%2 + 1
			return domain.Semester{
				Key:             key,
				Year:            year,
				Number:          number,
				LevelDisplay:    yearDisplay[year],
				SemesterDisplay: semesterDisplay[number],
				LevelCode:       levelCode(program, year),
			}
		}
	}
	return DetectSemester(key, program)
}

// MatchSemesterSheet finds the catalog sheet for a filename: exact
// normalized containment first, then the closest token match, then
// plain filename detection.
func MatchSemesterSheet(filename string, catalog *domain.Catalog, program string) string {
	normalized := NormalizeForMatching(filename)

	var best string
	bestScore := 0.0
	for sheet := range catalog.Semesters {
		sheetNorm := NormalizeForMatching(sheet)
		if strings.Contains(normalized, sheetNorm) {
			return sheet
		}
		if score := tokenSimilarity(normalized, sheetNorm); score > bestScore {
			bestScore = score
			best = sheet
		}
	}

	if bestScore >= 0.55 {
		return best
	}

	detected := DetectSemester(filename, program).Key
	if _, ok := catalog.Semesters[detected]; ok {
		return detected
	}
	return ""
}
