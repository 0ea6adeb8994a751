package carryover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examcli/internal/config"
	"examcli/internal/exporter"
	"examcli/internal/files"
	"examcli/internal/grading"
)

func setupBundle(t *testing.T, paths *config.Paths) string {
	t.Helper()

	staging := t.TempDir()
	publishMastersheet(t, staging)

	manifest := files.NewRunManifest("run-1", "processor", "ND", "SET47", "2023/2024")
	require.NoError(t, manifest.Save(filepath.Join(staging, "manifest.json")))

	cleanDir := paths.CleanResultsDir("ND", "SET47")
	bundleName := "SET47_RESULT-" + time.Now().Format(config.TimestampFormat) + ".zip"
	bundlePath := filepath.Join(cleanDir, bundleName)
	require.NoError(t, files.CreateZipFromDir(bundlePath, staging))
	return bundlePath
}

func TestUpdateSet(t *testing.T) {
	base := t.TempDir()
	paths := &config.Paths{BaseDir: base, LogsDir: filepath.Join(base, "logs")}
	setupBundle(t, paths)

	recordsPath := filepath.Join(base, "resits.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(`[
		{"exam_number": "ND/23/002", "scores": {"NUS111": 58, "GNS101": 60}},
		{"exam_number": "ND/23/099", "scores": {"NUS111": 70}}
	]`), 0644))

	updater := NewUpdater(paths, grading.Rules{PassThreshold: 50})
	report, err := updater.UpdateSet(context.Background(), "ND", "SET47", recordsPath)
	require.NoError(t, err)

	assert.Equal(t, 1, report.StudentsMatched)
	assert.Equal(t, 1, report.ScoresApplied, "failing NUS111 is raised")
	assert.Equal(t, 1, report.ScoresSkipped, "GNS101 already passed and is left alone")
	assert.Equal(t, []string{"ND/23/099"}, report.Unmatched)
	assert.FileExists(t, report.BackupPath)
	assert.FileExists(t, report.UpdatedBundle)

	// The updated bundle carries the reconciled sheet.
	dest := t.TempDir()
	_, err = files.ExtractZip(report.UpdatedBundle, dest)
	require.NoError(t, err)

	ms, err := ReadMastersheet(filepath.Join(dest, exporter.MastersheetFileName("ND-FIRST-YEAR-FIRST-SEMESTER")), 50)
	require.NoError(t, err)

	idx := ms.FindStudent("ND/23/002")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 58.0, ms.Students[idx].Scores["NUS111"])
	assert.Equal(t, 52.0, ms.Students[idx].Scores["GNS101"], "published passing score is never replaced")
}

func TestUpdateSet_NoPassingResits(t *testing.T) {
	base := t.TempDir()
	paths := &config.Paths{BaseDir: base, LogsDir: filepath.Join(base, "logs")}

	recordsPath := filepath.Join(base, "resits.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(`[
		{"exam_number": "ND/23/002", "scores": {"NUS111": 30}}
	]`), 0644))

	_, err := NewUpdater(paths, grading.Rules{PassThreshold: 50}).
		UpdateSet(context.Background(), "ND", "SET47", recordsPath)
	assert.Error(t, err)
}

func TestUpdateSet_NoBundle(t *testing.T) {
	base := t.TempDir()
	paths := &config.Paths{BaseDir: base, LogsDir: filepath.Join(base, "logs")}
	require.NoError(t, paths.EnsureSetDirectories("ND", "SET47"))

	recordsPath := filepath.Join(base, "resits.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(`[
		{"exam_number": "ND/23/002", "scores": {"NUS111": 70}}
	]`), 0644))

	_, err := NewUpdater(paths, grading.Rules{PassThreshold: 50}).
		UpdateSet(context.Background(), "ND", "SET47", recordsPath)
	assert.Error(t, err)
}
