// Package main provides the entry point for the ctdose CLI.
//
// ctdose extracts radiation dose data from CT dose structured reports
// (DICOM SR) and consolidates it into spreadsheet, JSON, or Markdown
// output for dose registries and audits.
//
// Usage:
//
//	ctdose extract <file-or-directory>...
//	ctdose convert report.json -o doses.xlsx
//
// See --help for all available options.
package main

// main is the entry point for ctdose.
func main() {
	Execute()
}
