package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunManifest records what a processing run produced. One manifest is
// written into every result bundle so a later carryover update knows
// the run configuration that built it.
type RunManifest struct {
	mu sync.RWMutex `json:"-"`

	// Identity
	RunID     string    `json:"run_id"`
	Tool      string    `json:"tool"`
	StartTime time.Time `json:"start_time"`

	// Run configuration
	Program string            `json:"program,omitempty"`
	Set     string            `json:"set,omitempty"`
	Session string            `json:"session,omitempty"`
	Config  map[string]string `json:"config,omitempty"`

	// Produced outputs by kind (mastersheet, csv, pdf_slips, ...)
	Outputs map[string]*OutputInfo `json:"outputs"`

	// Execution tracking
	CompletedSteps []StepExecution `json:"completed_steps"`

	Status      string    `json:"status"` // "running", "completed", "failed"
	LastUpdated time.Time `json:"last_updated"`
	Error       string    `json:"error,omitempty"`
}

// OutputInfo tracks one kind of produced output
type OutputInfo struct {
	Location  string    `json:"location"`
	FileCount int       `json:"file_count"`
	TotalSize int64     `json:"total_size"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// StepExecution tracks the execution of a single processing step
type StepExecution struct {
	Step      string    `json:"step"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  string    `json:"duration"`
	Status    string    `json:"status"` // "completed", "failed"
	Error     string    `json:"error,omitempty"`
}

// NewRunManifest creates a manifest for a starting run.
func NewRunManifest(runID, tool, program, set, session string) *RunManifest {
	now := time.Now()
	return &RunManifest{
		RunID:          runID,
		Tool:           tool,
		StartTime:      now,
		Program:        program,
		Set:            set,
		Session:        session,
		Config:         make(map[string]string),
		Outputs:        make(map[string]*OutputInfo),
		CompletedSteps: []StepExecution{},
		Status:         "running",
		LastUpdated:    now,
	}
}

// AddOutput records newly produced output files.
func (m *RunManifest) AddOutput(kind string, info *OutputInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info.CreatedAt = time.Now()
	m.Outputs[kind] = info
	m.LastUpdated = time.Now()
}

// RecordStep appends a finished step.
func (m *RunManifest) RecordStep(step string, start time.Time, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	end := time.Now()
	exec := StepExecution{
		Step:      step,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start).Round(time.Millisecond).String(),
		Status:    "completed",
	}
	if err != nil {
		exec.Status = "failed"
		exec.Error = err.Error()
	}
	m.CompletedSteps = append(m.CompletedSteps, exec)
	m.LastUpdated = end
}

// Complete marks the run finished, recording the error if any.
func (m *RunManifest) Complete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.Status = "failed"
		m.Error = err.Error()
	} else {
		m.Status = "completed"
	}
	m.LastUpdated = time.Now()
}

// Save writes the manifest as indented JSON.
func (m *RunManifest) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadManifest reads a manifest written by a previous run.
func LoadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Outputs == nil {
		m.Outputs = make(map[string]*OutputInfo)
	}
	return &m, nil
}
