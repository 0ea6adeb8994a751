// Package carryover reconciles resit outcomes into already published
// result bundles. It finds the latest <SET>_RESULT-<ts>.zip, backs it
// up, raises the failing scores that were passed on resit, recomputes
// every touched row and repacks an UPDATED_ bundle. Published scores
// are never lowered.
package carryover
