// =============================================================================
// TXT to XLSX Converter - Cell Sanitizer
// =============================================================================
//
// Spreadsheet XML cannot carry most C0 control characters. This module strips
// them from every text cell of a parsed table before it is written out.
//
// REMOVED CHARACTERS:
//   0x00-0x08, 0x0B-0x0C, 0x0E-0x1F
//
//   Tab (0x09), line feed (0x0A) and carriage return (0x0D) are legal and
//   are kept.
//
// =============================================================================

package sanitizer

import (
	"regexp"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
)

// illegalChars matches the control characters Excel refuses to store.
var illegalChars = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F]`)

// Report summarizes what a sanitize pass changed.
type Report struct {
	// CellsChanged is the number of string cells that lost at least one character.
	CellsChanged int

	// ColumnsChanged is the number of column names that lost at least one character.
	ColumnsChanged int
}

// Clean removes illegal control characters from a single string.
func Clean(s string) string {
	if !illegalChars.MatchString(s) {
		return s
	}
	return illegalChars.ReplaceAllString(s, "")
}

// Sanitize returns a copy of the table with illegal characters removed from
// every string cell and column name. The input table is not modified.
func Sanitize(table *types.Table) *types.Table {
	out, _ := SanitizeWithReport(table)
	return out
}

// SanitizeWithReport behaves like Sanitize and also reports how many values changed.
func SanitizeWithReport(table *types.Table) (*types.Table, Report) {
	var report Report
	if table == nil {
		return nil, report
	}

	out := &types.Table{
		Columns:    make([]string, len(table.Columns)),
		Rows:       make([][]any, len(table.Rows)),
		SourceFile: table.SourceFile,
		Tier:       table.Tier,
		Delimiter:  table.Delimiter,
	}

	for i, name := range table.Columns {
		cleaned := Clean(name)
		if cleaned != name {
			report.ColumnsChanged++
		}
		out.Columns[i] = cleaned
	}

	for r, row := range table.Rows {
		cleanedRow := make([]any, len(row))
		for c, value := range row {
			s, ok := value.(string)
			if !ok {
				cleanedRow[c] = value
				continue
			}
			cleaned := Clean(s)
			if cleaned != s {
				report.CellsChanged++
			}
			cleanedRow[c] = cleaned
		}
		out.Rows[r] = cleanedRow
	}

	return out, report
}
