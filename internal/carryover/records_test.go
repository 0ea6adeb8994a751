package carryover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examcli/pkg/contracts/domain"
)

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resits.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"exam_number": "nd/23/002", "name": "CHIOMA EZE", "scores": {"NUS111": 55, "GNS101": 43}},
		{"exam_number": "ND/23/009", "scores": {"NUS111": 61}}
	]`), 0644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ND/23/002", records[0].ExamNumber, "exam numbers are normalized")
	assert.Equal(t, 55.0, records[0].Scores["NUS111"])
}

func TestLoadRecords_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resits.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadRecords(path)
	assert.Error(t, err)
}

func TestLoadRecords_Missing(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestPassingScores(t *testing.T) {
	records := []domain.CarryoverRecord{
		{ExamNumber: "ND/23/002", Scores: map[string]float64{"NUS111": 55, "GNS101": 43}},
		{ExamNumber: "ND/23/005", Scores: map[string]float64{"NUS111": 40}},
	}
	passing := PassingScores(records, 50)

	require.Contains(t, passing, "ND/23/002")
	assert.Equal(t, map[string]float64{"NUS111": 55}, passing["ND/23/002"], "failing resits are dropped")
	assert.NotContains(t, passing, "ND/23/005", "students with only failing resits are dropped")
}
