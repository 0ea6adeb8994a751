// Package screening cleans admission screening exports: UTME/PUTME
// computer-based test results merged against candidate registers and
// JAMB lists, and CAOSCE station scores merged per candidate.
package screening
