package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"CAOSCE_PS1.xlsx", "PS1"},
		{"caosce_qs2_scores.xlsx", "QS2"},
		{"STATION 3.xlsx", "PS3"},
		{"QUESTION_4_EXPORT.xlsx", "QS4"},
		{"PROCEDURE-5.xlsx", "PS5"},
		{"station6.xlsx", "QS6"},
		{"VIVA SCORES.xlsx", "VIVA"},
		{"random.xlsx", ""},
		{"station 9.xlsx", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, StationFromFilename(tt.filename))
		})
	}
}

func TestMergeCAOSCE(t *testing.T) {
	ps1 := writeSheet(t, "CAOSCE_PS1.xlsx", [][]interface{}{
		{"EXAM NO", "NAME", "SCORE"},
		{"BN/22/010", "ADAUGO OKAFOR", 8},
		{"BN/22/011", "BOLA ADEYEMI", 6},
	})
	qs2 := writeSheet(t, "CAOSCE_QS2.xlsx", [][]interface{}{
		{"EXAM NO", "NAME", "SCORE"},
		{"BN/22/010", "ADAUGO OKAFOR", 7},
	})
	viva := writeSheet(t, "VIVA.xlsx", [][]interface{}{
		{"EXAM NO", "NAME", "SCORE"},
		{"BN/22/010", "ADAUGO OKAFOR", 9},
		{"BN/22/011", "BOLA ADEYEMI", 5},
	})

	results, err := MergeCAOSCE([]string{ps1, qs2, viva})
	require.NoError(t, err)
	require.Len(t, results, 2)

	adaugo := results[0]
	assert.Equal(t, "BN/22/010", adaugo.ExamNumber)
	assert.Equal(t, 24.0, adaugo.Total)
	assert.Equal(t, []string{"PS3", "QS4", "PS5", "QS6"}, adaugo.Missing)
	// 24 of 70 possible marks.
	assert.InDelta(t, 34.29, adaugo.Percent, 0.01)

	bola := results[1]
	assert.Equal(t, 11.0, bola.Total)
	assert.Contains(t, bola.Missing, "QS2")
}

func TestMergeCAOSCE_UnknownStation(t *testing.T) {
	path := writeSheet(t, "mystery.xlsx", [][]interface{}{
		{"EXAM NO", "NAME", "SCORE"},
		{"BN/22/010", "ADAUGO OKAFOR", 8},
	})

	_, err := MergeCAOSCE([]string{path})
	assert.Error(t, err)
}

func TestMergeCAOSCE_NoFiles(t *testing.T) {
	_, err := MergeCAOSCE(nil)
	assert.Error(t, err)
}
