// =============================================================================
// TXT to XLSX Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - txtparser
//   - sanitizer
//   - xlsxwriter
//   - converter
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// PARSE TIERS
// =============================================================================

// Tier identifies the parsing strategy that produced a Table.
type Tier int

const (
	// TierNone means the table was not produced by the parser.
	TierNone Tier = iota

	// TierDelimited is the delimiter auto-detection parse.
	TierDelimited

	// TierWhitespace is the whitespace-delimited parse.
	TierWhitespace

	// TierRawLines is the single-column raw text fallback.
	TierRawLines
)

// String returns a human-readable tier label for logs and summaries.
func (t Tier) String() string {
	switch t {
	case TierDelimited:
		return "delimited"
	case TierWhitespace:
		return "whitespace"
	case TierRawLines:
		return "raw-lines"
	default:
		return "none"
	}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is a two-dimensional result of rows and named columns.
// Cell values are string, int64, float64 or nil (empty cell).
type Table struct {
	// Columns contains the column names in output order.
	Columns []string

	// Rows contains the cell values. Every row has len(Columns) cells.
	Rows [][]any

	// SourceFile is the path to the file the table was parsed from.
	SourceFile string

	// Tier is the parsing strategy that produced the table.
	Tier Tier

	// Delimiter is the detected field delimiter for TierDelimited tables.
	Delimiter rune
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// String renders a short description such as "3 rows x 2 columns (delimited ',')".
func (t *Table) String() string {
	label := t.Tier.String()
	if t.Tier == TierDelimited && t.Delimiter != 0 {
		label += " " + DelimiterName(t.Delimiter)
	}
	return fmt.Sprintf("%d rows x %d columns (%s)", t.RowCount(), t.ColumnCount(), label)
}

// DelimiterName returns a printable name for a delimiter rune.
func DelimiterName(r rune) string {
	switch r {
	case '\t':
		return "tab"
	case ' ':
		return "space"
	default:
		return "'" + string(r) + "'"
	}
}
