// =============================================================================
// TXT to XLSX Converter - Tiered Text Parser
// =============================================================================
//
// This module turns a text export from the reporting system into a Table.
// The exports are not consistent: some are comma or pipe delimited, some are
// fixed-width with runs of spaces, and some are free-form reports. The parser
// therefore tries three strategies in order and keeps the first that works:
//
//   1. Delimited      - sniff the delimiter, parse as CSV, skip bad lines
//   2. Whitespace     - split on runs of whitespace, skip bad lines
//   3. Raw lines      - one "RawText" column, one trimmed row per line
//
// Tier 3 cannot fail once the file has been read, so Parse only returns an
// error when the file itself cannot be read.
//
// MALFORMED LINES (tiers 1 and 2):
//   - more fields than the header: the line is skipped
//   - fewer fields than the header: the missing cells are left empty
//   - unparseable quoting: the line is skipped
//
// ENCODING:
//   Tiers 1 and 2 require UTF-8 without NUL bytes. Files starting with a
//   UTF-16 byte order mark are decoded first; a UTF-8 byte order mark is
//   dropped. Tier 3 drops any invalid bytes instead of failing.
//
// =============================================================================

package txtparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// RawTextColumn is the single column name produced by the raw-lines tier.
const RawTextColumn = "RawText"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyFile is returned by the tabular tiers when the file has no data.
	ErrEmptyFile = errors.New("no columns to parse from file")

	// ErrNotText is returned by the tabular tiers for invalid UTF-8 or NUL bytes.
	ErrNotText = errors.New("file is not valid UTF-8 text")

	// ErrNoDelimiter is returned by the delimited tier when sniffing fails.
	ErrNoDelimiter = errors.New("could not determine delimiter")
)

// TierError records why a parsing tier was abandoned.
type TierError struct {
	Tier types.Tier
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s parse failed: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error {
	return e.Err
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls parser behavior.
type Options struct {
	// Candidates are the delimiters considered by the sniffer, in priority order.
	Candidates []rune

	// SampleLines is the number of non-blank lines examined by the sniffer.
	SampleLines int

	// MinConsistency is the share of sampled lines that must agree on the
	// delimiter count for a candidate to qualify.
	MinConsistency float64

	// InferTypes converts all-integer and all-decimal columns to numbers.
	InferTypes bool
}

// DefaultOptions returns the default parser options.
func DefaultOptions() Options {
	return Options{
		Candidates:     []rune{',', '\t', ';', '|', ':'},
		SampleLines:    50,
		MinConsistency: 0.8,
		InferTypes:     true,
	}
}

// Logger receives a message for every abandoned tier.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// =============================================================================
// PARSER
// =============================================================================

// Result is the outcome of a tiered parse.
type Result struct {
	// Table is the parsed table. It is never nil when Parse succeeds.
	Table *types.Table

	// Failures lists the tiers that were tried and abandoned, in order.
	Failures []*TierError

	// SkippedLines is the number of malformed lines dropped by the winning tier.
	SkippedLines int
}

// Parser runs the tiered parse.
type Parser struct {
	options Options
	logger  Logger
}

// New creates a Parser. A nil logger discards tier failure messages.
func New(options Options, logger Logger) *Parser {
	if len(options.Candidates) == 0 {
		options.Candidates = DefaultOptions().Candidates
	}
	if options.SampleLines <= 0 {
		options.SampleLines = DefaultOptions().SampleLines
	}
	if options.MinConsistency <= 0 || options.MinConsistency > 1 {
		options.MinConsistency = DefaultOptions().MinConsistency
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Parser{options: options, logger: logger}
}

// Parse reads a file with the default options and no logging.
func Parse(filePath string) (*types.Table, error) {
	result, err := New(DefaultOptions(), nil).Parse(filePath)
	if err != nil {
		return nil, err
	}
	return result.Table, nil
}

// Parse reads the file and returns the table produced by the first tier
// that succeeds. An error is returned only if the file cannot be read.
func (p *Parser) Parse(filePath string) (*Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result := p.ParseBytes(data)
	result.Table.SourceFile = filePath
	return result, nil
}

// ParseBytes runs the tiers over in-memory file content.
func (p *Parser) ParseBytes(data []byte) *Result {
	data = normalizeEncoding(data)
	result := &Result{}

	tiers := []struct {
		tier  types.Tier
		parse func([]byte) (*types.Table, int, error)
	}{
		{types.TierDelimited, p.parseDelimited},
		{types.TierWhitespace, p.parseWhitespace},
	}

	for _, t := range tiers {
		table, skipped, err := t.parse(data)
		if err == nil {
			table.Tier = t.tier
			result.Table = table
			result.SkippedLines = skipped
			if skipped > 0 {
				p.logger.Debug("skipped malformed lines", "tier", t.tier.String(), "lines", skipped)
			}
			return result
		}

		tierErr := &TierError{Tier: t.tier, Err: err}
		result.Failures = append(result.Failures, tierErr)
		p.logger.Warn("parse tier failed", "tier", t.tier.String(), "error", err.Error())
	}

	result.Table = parseRawLines(data)
	return result
}

// =============================================================================
// ENCODING
// =============================================================================

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// normalizeEncoding strips a UTF-8 BOM and decodes UTF-16 content with a BOM.
// Anything else is returned unchanged so invalid bytes still fail tiers 1 and 2.
func normalizeEncoding(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoder := textunicode.UTF16(textunicode.LittleEndian, textunicode.UseBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return data
		}
		return decoded
	default:
		return data
	}
}

// =============================================================================
// TIER 1: DELIMITED
// =============================================================================

// parseDelimited sniffs the delimiter and parses the content as CSV.
func (p *Parser) parseDelimited(data []byte) (*types.Table, int, error) {
	lines, err := textLines(data)
	if err != nil {
		return nil, 0, err
	}

	sample := lines
	if len(sample) > p.options.SampleLines {
		sample = sample[:p.options.SampleLines]
	}

	delimiter, err := sniffDelimiter(sample, p.options.Candidates, p.options.MinConsistency)
	if err != nil {
		return nil, 0, err
	}

	// encoding/csv only splits records on \n, so bare \r line breaks are
	// normalized first.
	normalized := strings.Join(splitLines(string(data)), "\n")
	reader := csv.NewReader(strings.NewReader(normalized))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	// TrimLeadingSpace would also eat empty tab-separated fields.
	reader.TrimLeadingSpace = !unicode.IsSpace(delimiter)

	var records [][]string
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("failed to read delimited data: %w", err)
		}
		if isRowEmpty(record) {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, 0, ErrEmptyFile
	}

	table, dropped := p.buildTable(records)
	table.Delimiter = delimiter
	return table, skipped + dropped, nil
}

// sniffDelimiter picks the candidate whose per-line count is most consistent
// across the sample. A candidate must appear in the header line. Delimiters
// inside double-quoted fields are not counted.
func sniffDelimiter(sample []string, candidates []rune, minConsistency float64) (rune, error) {
	if len(sample) == 0 {
		return 0, ErrEmptyFile
	}

	var best rune
	bestConsistency := 0.0
	bestMode := 0

	for _, candidate := range candidates {
		if !strings.ContainsRune(sample[0], candidate) {
			continue
		}

		frequencies := make(map[int]int)
		for _, line := range sample {
			frequencies[countOutsideQuotes(line, candidate)]++
		}

		mode, modeFrequency := 0, 0
		for count, frequency := range frequencies {
			if count == 0 {
				continue
			}
			if frequency > modeFrequency || (frequency == modeFrequency && count > mode) {
				mode, modeFrequency = count, frequency
			}
		}
		if mode == 0 {
			continue
		}

		consistency := float64(modeFrequency) / float64(len(sample))
		if consistency < minConsistency {
			continue
		}

		if consistency > bestConsistency || (consistency == bestConsistency && mode > bestMode) {
			best, bestConsistency, bestMode = candidate, consistency, mode
		}
	}

	if best == 0 {
		return 0, ErrNoDelimiter
	}
	return best, nil
}

// countOutsideQuotes counts occurrences of r that are not inside a quoted
// field. A quote opens a field only at its start (after optional spaces) and
// closes it only before r or the end of the line, so a bare quote inside an
// unquoted value such as 5" bolt is plain text. A doubled quote inside a
// quoted field is an escaped quote.
func countOutsideQuotes(line string, r rune) int {
	runes := []rune(line)
	count := 0
	inQuotes := false
	fieldStart := true

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuotes {
			if c != '"' {
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			if closesField(runes[i+1:], r) {
				inQuotes = false
			}
			continue
		}

		switch {
		case c == r:
			count++
			fieldStart = true
		case c == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
		case c == ' ' && fieldStart:
		default:
			fieldStart = false
		}
	}
	return count
}

// closesField reports whether rest, the text after a quote, starts with
// optional spaces followed by r or the end of the line.
func closesField(rest []rune, r rune) bool {
	for _, c := range rest {
		if c == r {
			return true
		}
		if c != ' ' {
			return false
		}
	}
	return true
}

// =============================================================================
// TIER 2: WHITESPACE
// =============================================================================

// parseWhitespace splits every non-blank line on runs of whitespace.
func (p *Parser) parseWhitespace(data []byte) (*types.Table, int, error) {
	lines, err := textLines(data)
	if err != nil {
		return nil, 0, err
	}

	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		records = append(records, strings.Fields(line))
	}

	table, dropped := p.buildTable(records)
	return table, dropped, nil
}

// =============================================================================
// TIER 3: RAW LINES
// =============================================================================

// parseRawLines returns one trimmed row per line. Invalid UTF-8 is dropped.
func parseRawLines(data []byte) *types.Table {
	text := strings.ToValidUTF8(string(data), "")
	lines := splitLines(text)

	table := &types.Table{
		Columns: []string{RawTextColumn},
		Rows:    make([][]any, 0, len(lines)),
		Tier:    types.TierRawLines,
	}
	for _, line := range lines {
		table.Rows = append(table.Rows, []any{strings.TrimSpace(line)})
	}
	return table
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// textLines validates the content as UTF-8 text without NUL bytes and
// returns its non-blank lines.
func textLines(data []byte) ([]string, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, ErrNotText
	}

	var lines []string
	for _, line := range splitLines(string(data)) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}
	return lines, nil
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not
// produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// buildTable turns records into a table using the first record as header.
// It returns the number of records dropped for having too many fields.
func (p *Parser) buildTable(records [][]string) (*types.Table, int) {
	headers := cleanHeaders(records[0])
	rows := make([][]string, 0, len(records)-1)
	dropped := 0

	for _, record := range records[1:] {
		if len(record) > len(headers) {
			dropped++
			continue
		}
		row := make([]string, len(headers))
		for i, value := range record {
			row[i] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}

	return &types.Table{
		Columns: headers,
		Rows:    convertRows(rows, len(headers), p.options.InferTypes),
	}, dropped
}

// cleanHeaders trims header names, names empty headers Column_N and makes
// duplicates unique with a ".N" suffix.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		base := header
		for n := 1; seen[header]; n++ {
			header = fmt.Sprintf("%s.%d", base, n)
		}
		seen[header] = true

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// TYPE INFERENCE
// =============================================================================

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindString
)

// convertRows converts string rows to cell values. Empty cells become nil.
// With inference on, a column whose values all parse as integers becomes
// int64, one whose values all parse as finite decimals becomes float64.
func convertRows(rows [][]string, columns int, inferTypes bool) [][]any {
	kinds := make([]columnKind, columns)
	for c := range kinds {
		kinds[c] = kindString
		if inferTypes {
			kinds[c] = inferColumn(rows, c)
		}
	}

	out := make([][]any, len(rows))
	for r, row := range rows {
		values := make([]any, columns)
		for c, raw := range row {
			values[c] = convertValue(raw, kinds[c])
		}
		out[r] = values
	}
	return out
}

func inferColumn(rows [][]string, column int) columnKind {
	kind := kindInt
	sawValue := false

	for _, row := range rows {
		value := row[column]
		if value == "" {
			continue
		}
		sawValue = true

		if kind == kindInt {
			if _, err := strconv.ParseInt(value, 10, 64); err == nil {
				continue
			}
			kind = kindFloat
		}
		if _, ok := parseFinite(value); !ok {
			return kindString
		}
	}

	if !sawValue {
		return kindString
	}
	return kind
}

func convertValue(raw string, kind columnKind) any {
	if raw == "" {
		return nil
	}
	switch kind {
	case kindInt:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
	case kindFloat:
		if f, ok := parseFinite(raw); ok {
			return f
		}
	}
	return raw
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
