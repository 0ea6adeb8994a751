// Package files provides filesystem operations for the exam results
// pipeline: discovery of raw workbooks and result bundles, safe
// copy/backup handling, ZIP packing of outputs and the JSON run
// manifest written into every bundle.
//
// Result bundles are named <SET>_RESULT-<timestamp>.zip. Updated
// bundles get an UPDATED_ prefix and backups a BACKUP_ prefix so the
// latest original bundle can always be found again.
package files
