package domain

// CarryoverRecord is one student's resit outcome as exported by the
// resit pipeline: the courses retaken and the new scores.
type CarryoverRecord struct {
	ExamNumber string             `json:"exam_number" validate:"required"`
	Name       string             `json:"name,omitempty"`
	Scores     map[string]float64 `json:"scores" validate:"required"`
}

// UpdateReport summarizes an in-place mastersheet reconciliation run.
type UpdateReport struct {
	StudentsMatched int      `json:"students_matched"`
	ScoresApplied   int      `json:"scores_applied"`
	ScoresSkipped   int      `json:"scores_skipped"`
	Unmatched       []string `json:"unmatched,omitempty"`
	BackupPath      string   `json:"backup_path,omitempty"`
	UpdatedBundle   string   `json:"updated_bundle,omitempty"`
}
