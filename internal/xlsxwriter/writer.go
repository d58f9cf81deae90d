// =============================================================================
// TXT to XLSX Converter - XLSX Writer Module
// =============================================================================
//
// This module serializes a sanitized Table into an .xlsx workbook.
//
// WORKBOOK LAYOUT:
//   A single sheet (default "Sheet1"):
//
//   | A          | B          | C          |
//   |------------|------------|------------|
//   | Column 1   | Column 2   | Column 3   |   <- header row, bold
//   | value      | 12         | 3.5        |   <- data from row 2
//
//   Numbers stay numeric, empty cells stay empty, and there is no index column.
//
// OVERWRITE:
//   The workbook is saved to a temporary file next to the destination and
//   renamed over it, so an existing file with the same name is replaced.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/TXT-to-XLSX-conversion/internal/types"
	"github.com/ginjaninja78/TXT-to-XLSX-conversion/pkg/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// WriteOptions contains options for workbook generation.
type WriteOptions struct {
	// SheetName is the name of the single output sheet.
	// Default: "Sheet1"
	SheetName string

	// BoldHeader renders the header row in bold.
	// Default: true
	BoldHeader bool
}

// DefaultWriteOptions returns the default write options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		SheetName:  defaultSheet,
		BoldHeader: true,
	}
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// Write saves the table as destDir/destFile with the default options.
//
// RETURNS:
//   - The path of the written workbook.
//   - An error if the directory cannot be created or the workbook cannot be saved.
func Write(table *types.Table, destDir, destFile string) (string, error) {
	return WriteWithOptions(table, destDir, destFile, DefaultWriteOptions())
}

// WriteWithOptions saves the table as destDir/destFile.
func WriteWithOptions(table *types.Table, destDir, destFile string, options WriteOptions) (string, error) {
	if table == nil {
		return "", fmt.Errorf("no table to write")
	}
	if err := checkLimits(table); err != nil {
		return "", err
	}

	if err := utils.EnsureDirectory(destDir); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}
	destPath := filepath.Join(destDir, destFile)

	f, err := buildWorkbook(table, options)
	if err != nil {
		return "", err
	}
	defer f.Close()

	tempPath := tempPathFor(destPath)
	if err := f.SaveAs(tempPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to replace %s: %w", destFile, err)
	}

	return destPath, nil
}

// buildWorkbook streams the header and data rows into a new workbook.
func buildWorkbook(table *types.Table, options WriteOptions) (*excelize.File, error) {
	sheet := options.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerStyle := 0
	if options.BoldHeader {
		headerStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
	}

	header := make([]interface{}, len(table.Columns))
	for i, name := range table.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	return f, nil
}

// checkLimits rejects tables that cannot fit in a single worksheet.
func checkLimits(table *types.Table) error {
	if len(table.Columns) > excelize.MaxColumns {
		return fmt.Errorf("table has %d columns, the sheet limit is %d", len(table.Columns), excelize.MaxColumns)
	}
	if len(table.Rows)+1 > excelize.TotalRows {
		return fmt.Errorf("table has %d rows, the sheet limit is %d including the header", len(table.Rows), excelize.TotalRows)
	}
	return nil
}

// tempPathFor returns a hidden sibling path that keeps the .xlsx extension
// excelize requires for SaveAs.
func tempPathFor(destPath string) string {
	dir, name := filepath.Split(destPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s%s", stem, uuid.NewString(), ext))
}
