package files

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunManifestLifecycle(t *testing.T) {
	m := NewRunManifest("run-1", "processor", "ND", "SET47", "2023/2024")
	assert.Equal(t, "running", m.Status)

	start := time.Now().Add(-2 * time.Second)
	m.RecordStep("parse_raw_workbooks", start, nil)
	m.RecordStep("export_mastersheet", start, errors.New("disk full"))

	m.AddOutput("mastersheet", &OutputInfo{
		Location:  "CLEAN_RESULTS",
		FileCount: 1,
		Files:     []string{"mastersheet_ND-FIRST-YEAR-FIRST-SEMESTER.xlsx"},
		CreatedBy: "processor",
	})

	m.Complete(nil)

	require.Len(t, m.CompletedSteps, 2)
	assert.Equal(t, "completed", m.CompletedSteps[0].Status)
	assert.Equal(t, "failed", m.CompletedSteps[1].Status)
	assert.Equal(t, "disk full", m.CompletedSteps[1].Error)
	assert.Equal(t, "completed", m.Status)
	assert.False(t, m.Outputs["mastersheet"].CreatedAt.IsZero())
}

func TestRunManifestSaveLoad(t *testing.T) {
	m := NewRunManifest("run-2", "carryover", "BN", "SET12", "2024/2025")
	m.Config["pass_threshold"] = "50"
	m.Complete(errors.New("no bundle found"))

	path := filepath.Join(t.TempDir(), "nested", "manifest.json")
	require.NoError(t, m.Save(path))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "run-2", loaded.RunID)
	assert.Equal(t, "carryover", loaded.Tool)
	assert.Equal(t, "failed", loaded.Status)
	assert.Equal(t, "no bundle found", loaded.Error)
	assert.Equal(t, "50", loaded.Config["pass_threshold"])
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
