package dataprocessing

import (
	"regexp"
	"strings"
)

var (
	ordinalFirst  = regexp.MustCompile(`\b1st\b`)
	ordinalSecond = regexp.MustCompile(`\b2nd\b`)
	ordinalThird  = regexp.MustCompile(`\b3rd\b`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// NormalizeForMatching lowercases a label, expands ordinals and strips
// punctuation so filenames and sheet names can be compared loosely.
func NormalizeForMatching(s string) string {
	s = strings.ToLower(s)
	s = ordinalFirst.ReplaceAllString(s, "first")
	s = ordinalSecond.ReplaceAllString(s, "second")
	s = ordinalThird.ReplaceAllString(s, "third")
	s = nonAlnum.ReplaceAllString(s, " ")
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeCourseName collapses whitespace for course title matching.
// The raw exports carry a recurring typo for "communication".
func NormalizeCourseName(name string) string {
	n := multiSpace.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), " ")
	return strings.ReplaceAll(n, "coomunication", "communication")
}

// NormalizeExamNumber trims and uppercases an exam number so the same
// student matches across files with inconsistent casing.
func NormalizeExamNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NameSimilarity compares two person names loosely, tolerating token
// order and punctuation differences.
func NameSimilarity(a, b string) float64 {
	return tokenSimilarity(NormalizeForMatching(a), NormalizeForMatching(b))
}

// tokenSimilarity is the share of tokens two normalized strings have
// in common, used as a close-match fallback when exact containment
// fails.
func tokenSimilarity(a, b string) float64 {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	set := make(map[string]bool, len(at))
	for _, t := range at {
		set[t] = true
	}
	common := 0
	for _, t := range bt {
		if set[t] {
			common++
		}
	}

	union := len(at) + len(bt) - common
	return float64(common) / float64(union)
}
