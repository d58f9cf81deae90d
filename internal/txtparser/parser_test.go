package txtparser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/sanitizer"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestParseDelimitedMatchesSchema(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delimiter rune
	}{
		{"comma", "Item,Desc,Qty,Price\nA1,Bolt,10,0.25\nA2,Nut,20,0.10\n", ','},
		{"pipe", "Item|Desc|Qty|Price\nA1|Bolt|10|0.25\nA2|Nut|20|0.10\n", '|'},
		{"tab", "Item\tDesc\tQty\tPrice\nA1\tBolt\t10\t0.25\nA2\tNut\t20\t0.10\n", '\t'},
		{"semicolon crlf", "Item;Desc;Qty;Price\r\nA1;Bolt;10;0.25\r\nA2;Nut;20;0.10\r\n", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(DefaultOptions(), nil).Parse(writeFile(t, tt.content))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			table := result.Table
			if table.Tier != types.TierDelimited {
				t.Fatalf("Expected delimited tier, got %s", table.Tier)
			}
			if table.Delimiter != tt.delimiter {
				t.Errorf("Expected delimiter %q, got %q", tt.delimiter, table.Delimiter)
			}
			if !reflect.DeepEqual(table.Columns, []string{"Item", "Desc", "Qty", "Price"}) {
				t.Errorf("Unexpected columns: %v", table.Columns)
			}
			expected := [][]any{
				{"A1", "Bolt", int64(10), 0.25},
				{"A2", "Nut", int64(20), 0.10},
			}
			if !reflect.DeepEqual(table.Rows, expected) {
				t.Errorf("Expected rows %v, got %v", expected, table.Rows)
			}
			if len(result.Failures) != 0 {
				t.Errorf("Expected no tier failures, got %v", result.Failures)
			}
		})
	}
}

func TestParseQuotedDelimiters(t *testing.T) {
	content := "\"Name\",\"Qty\"\n\"Bolt, large\",5\n\"Nut, small\",7\n"

	table, err := Parse(writeFile(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if table.Tier != types.TierDelimited || table.Delimiter != ',' {
		t.Fatalf("Expected comma delimited table, got %s", table)
	}
	if table.Rows[0][0] != "Bolt, large" {
		t.Errorf("Expected quoted value to be kept whole, got %q", table.Rows[0][0])
	}
}

func TestParseTabDelimitedKeepsEmptyCells(t *testing.T) {
	content := "Item\tDesc\tQty\tPrice\n" +
		"A1\t\t10\t0.25\n" +
		"A2\tNut\t\t0.10\n" +
		"A3\tWasher\t5\t\n"

	result, err := New(DefaultOptions(), nil).Parse(writeFile(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	table := result.Table
	if table.Tier != types.TierDelimited || table.Delimiter != '\t' {
		t.Fatalf("Expected tab delimited table, got %s", table)
	}
	expected := [][]any{
		{"A1", nil, int64(10), 0.25},
		{"A2", "Nut", nil, 0.10},
		{"A3", "Washer", int64(5), nil},
	}
	if !reflect.DeepEqual(table.Rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, table.Rows)
	}
	if result.SkippedLines != 0 {
		t.Errorf("Expected no skipped lines, got %d", result.SkippedLines)
	}
}

func TestParseCarriageReturnLineBreaks(t *testing.T) {
	result, err := New(DefaultOptions(), nil).Parse(writeFile(t, "a,b\r1,2\r3,4\r"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	table := result.Table
	if table.Tier != types.TierDelimited {
		t.Fatalf("Expected delimited tier, got %s", table.Tier)
	}
	if !reflect.DeepEqual(table.Columns, []string{"a", "b"}) {
		t.Errorf("Expected columns [a b], got %q", table.Columns)
	}
	expected := [][]any{{int64(1), int64(2)}, {int64(3), int64(4)}}
	if !reflect.DeepEqual(table.Rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, table.Rows)
	}
}

func TestParseInchMarksInUnquotedValues(t *testing.T) {
	content := "Item,Desc,Qty\nA1,5\" bolt,10\nA2,3\" nut,20\nA3,washer,30\n"

	table, err := Parse(writeFile(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Tier != types.TierDelimited || table.Delimiter != ',' {
		t.Fatalf("Expected comma delimited table, got %s", table)
	}
	if table.Rows[0][1] != "5\" bolt" || table.Rows[1][2] != int64(20) {
		t.Errorf("Unexpected rows %v", table.Rows)
	}
}

func TestParseControlCharacterExample(t *testing.T) {
	table, err := Parse(writeFile(t, "a\x01,b\nc,d\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Tier != types.TierDelimited || table.Delimiter != ',' {
		t.Fatalf("Expected comma delimited table, got %s", table)
	}

	cleaned := sanitizer.Sanitize(table)
	if !reflect.DeepEqual(cleaned.Columns, []string{"a", "b"}) {
		t.Errorf("Expected columns [a b], got %q", cleaned.Columns)
	}
	if !reflect.DeepEqual(cleaned.Rows, [][]any{{"c", "d"}}) {
		t.Errorf("Expected rows [[c d]], got %v", cleaned.Rows)
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("a,b\n")
	for i := 0; i < 8; i++ {
		b.WriteString("1,2\n")
	}
	b.WriteString("1,2,3\n")
	b.WriteString("\n")
	b.WriteString("4\n")

	result, err := New(DefaultOptions(), nil).Parse(writeFile(t, b.String()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	table := result.Table
	if table.Tier != types.TierDelimited {
		t.Fatalf("Expected delimited tier, got %s", table.Tier)
	}
	if table.RowCount() != 9 {
		t.Errorf("Expected 9 rows, got %d", table.RowCount())
	}
	if result.SkippedLines != 1 {
		t.Errorf("Expected 1 skipped line, got %d", result.SkippedLines)
	}
	last := table.Rows[len(table.Rows)-1]
	if last[0] != int64(4) || last[1] != nil {
		t.Errorf("Expected short line padded with nil, got %v", last)
	}
}

func TestParseWhitespaceTier(t *testing.T) {
	content := "PART   DESC    QTY\nA100   bolt    10\nA200   washer  5\nA300   nut     7   extra\n"
	logger := &recordingLogger{}

	result, err := New(DefaultOptions(), logger).Parse(writeFile(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	table := result.Table
	if table.Tier != types.TierWhitespace {
		t.Fatalf("Expected whitespace tier, got %s", table.Tier)
	}
	if !reflect.DeepEqual(table.Columns, []string{"PART", "DESC", "QTY"}) {
		t.Errorf("Unexpected columns: %v", table.Columns)
	}
	if table.RowCount() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.RowCount())
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0], ErrNoDelimiter) {
		t.Errorf("Expected one ErrNoDelimiter failure, got %v", result.Failures)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(logger.warnings))
	}
}

func TestParseBinaryFallsBackToRawLines(t *testing.T) {
	content := "\x80\x81\x82binary\n  line two  \n\xfe\xff end"
	logger := &recordingLogger{}

	result, err := New(DefaultOptions(), logger).Parse(writeFile(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	table := result.Table
	if table.Tier != types.TierRawLines {
		t.Fatalf("Expected raw-lines tier, got %s", table.Tier)
	}
	if !reflect.DeepEqual(table.Columns, []string{RawTextColumn}) {
		t.Errorf("Expected single RawText column, got %v", table.Columns)
	}
	expected := [][]any{{"binary"}, {"line two"}, {"end"}}
	if !reflect.DeepEqual(table.Rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, table.Rows)
	}

	if len(result.Failures) != 2 {
		t.Fatalf("Expected 2 tier failures, got %d", len(result.Failures))
	}
	for _, failure := range result.Failures {
		if !errors.Is(failure, ErrNotText) {
			t.Errorf("Expected ErrNotText, got %v", failure)
		}
	}
	if len(logger.warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %d", len(logger.warnings))
	}
}

func TestParseNULBytesFallBackToRawLines(t *testing.T) {
	table, err := Parse(writeFile(t, "a,b\x00\nc,d\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Tier != types.TierRawLines {
		t.Fatalf("Expected raw-lines tier, got %s", table.Tier)
	}
	if table.RowCount() != 2 || table.Rows[0][0] != "a,b\x00" {
		t.Errorf("Unexpected rows: %v", table.Rows)
	}
}

func TestParseEmptyFile(t *testing.T) {
	result, err := New(DefaultOptions(), nil).Parse(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.Table.Tier != types.TierRawLines {
		t.Fatalf("Expected raw-lines tier, got %s", result.Table.Tier)
	}
	if result.Table.RowCount() != 0 {
		t.Errorf("Expected 0 rows, got %d", result.Table.RowCount())
	}
	for _, failure := range result.Failures {
		if !errors.Is(failure, ErrEmptyFile) {
			t.Errorf("Expected ErrEmptyFile, got %v", failure)
		}
	}
}

func TestParseUnreadableFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestParseUTF16WithBOM(t *testing.T) {
	text := "a,b\n1,2\n"
	data := []byte{0xFF, 0xFE}
	for _, c := range []byte(text) {
		data = append(data, c, 0x00)
	}

	result := New(DefaultOptions(), nil).ParseBytes(data)
	if result.Table.Tier != types.TierDelimited {
		t.Fatalf("Expected delimited tier, got %s", result.Table.Tier)
	}
	if !reflect.DeepEqual(result.Table.Columns, []string{"a", "b"}) {
		t.Errorf("Unexpected columns: %q", result.Table.Columns)
	}
}

func TestParseUTF8BOMIsDropped(t *testing.T) {
	result := New(DefaultOptions(), nil).ParseBytes([]byte("\xEF\xBB\xBFItem,Qty\nA,1\n"))
	if result.Table.Columns[0] != "Item" {
		t.Errorf("Expected BOM to be dropped, got %q", result.Table.Columns[0])
	}
}

func TestParseInferTypesDisabled(t *testing.T) {
	options := DefaultOptions()
	options.InferTypes = false

	result := New(options, nil).ParseBytes([]byte("id,price\n007,1.5\n8,\n"))
	expected := [][]any{{"007", "1.5"}, {"8", nil}}
	if !reflect.DeepEqual(result.Table.Rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, result.Table.Rows)
	}
}

func TestConvertRowsInference(t *testing.T) {
	rows := [][]string{
		{"007", "1.5", "a", "", "NaN"},
		{"8", "2", "3", "", "1"},
	}

	got := convertRows(rows, 5, true)
	expected := [][]any{
		{int64(7), 1.5, "a", nil, "NaN"},
		{int64(8), 2.0, "3", nil, "1"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCleanHeaders(t *testing.T) {
	got := cleanHeaders([]string{" x ", "", "x", "x", "x.1"})
	expected := []string{"x", "Column_2", "x.1", "x.2", "x.1.1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSniffDelimiter(t *testing.T) {
	candidates := DefaultOptions().Candidates

	tests := []struct {
		name     string
		sample   []string
		expected rune
		err      error
	}{
		{"comma", []string{"a,b,c", "1,2,3"}, ',', nil},
		{"pipe beats comma", []string{"a|b|c", "1,5|2|3", "4|5|6"}, '|', nil},
		{"not in header", []string{"a b c", "1,2 3"}, 0, ErrNoDelimiter},
		{"inconsistent", []string{"a,b", "1", "2", "3", "4"}, 0, ErrNoDelimiter},
		{"higher mode wins tie", []string{"a;b|c|d", "1;2|3|4"}, '|', nil},
		{"empty", nil, 0, ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffDelimiter(tt.sample, candidates, 0.8)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Expected error %v, got %v", tt.err, err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCountOutsideQuotes(t *testing.T) {
	tests := []struct {
		line     string
		expected int
	}{
		{"a,b,c", 2},
		{`"a,b",c`, 1},
		{`A1,5" bolt,10`, 2},
		{`A1,"3/4"" nut, zinc",10`, 2},
		{`A1, "x, y" ,10`, 2},
		{`"open, never closed`, 0},
	}

	for _, tt := range tests {
		if got := countOutsideQuotes(tt.line, ','); got != tt.expected {
			t.Errorf("countOutsideQuotes(%q) = %d, expected %d", tt.line, got, tt.expected)
		}
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\rc\n\n", []string{"a", "b", "c", ""}},
	}

	for _, tt := range tests {
		if got := splitLines(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("splitLines(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
