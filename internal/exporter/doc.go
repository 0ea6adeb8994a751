// Package exporter renders processed results to their distribution
// formats: the styled mastersheet workbook, UTF-8 CSV exports that
// open cleanly in Excel, screening result workbooks and per-student
// PDF result slips.
package exporter
