package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForMatching(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ND-FIRST-YEAR-FIRST-SEMESTER", "nd first year first semester"},
		{"BN 1st Year  2nd Semester.xlsx", "bn first year second semester xlsx"},
		{"  N-THIRD-YEAR-FIRST-SEMESTER ", "n third year first semester"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeForMatching(tt.input))
	}
}

func TestNormalizeCourseName(t *testing.T) {
	assert.Equal(t, "use of english", NormalizeCourseName("  Use  Of English "))
	assert.Equal(t, "communication in nursing", NormalizeCourseName("Coomunication in Nursing"))
}

func TestNormalizeExamNumber(t *testing.T) {
	assert.Equal(t, "ND/2024/001", NormalizeExamNumber(" nd/2024/001 "))
}

func TestTokenSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, tokenSimilarity("first year", "first year"))
	assert.Equal(t, 0.0, tokenSimilarity("alpha", "beta"))
	assert.InDelta(t, 0.5, tokenSimilarity("first year first semester", "first year second semester"), 0.35)
	assert.Equal(t, 0.0, tokenSimilarity("", "anything"))
}
