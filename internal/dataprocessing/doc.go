// Package dataprocessing turns raw examination workbooks into
// mastersheets. It loads the course catalog, detects semesters from
// filenames, locates score columns with fuzzy header matching, merges
// the CA/OBJ/EXAM sheets per student, and computes every derived
// column through the grading rules.
package dataprocessing
