// Package tabular converts spreadsheet attachments into CSV text so they can
// be embedded in a chat message.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the attachment types the converter accepts
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// IsSupported reports whether path has a convertible extension
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Convert reads a spreadsheet or CSV file and returns its base name and CSV
// text. For workbooks only the first sheet is read.
func Convert(path string) (string, string, error) {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".xlsx", ".xlsm":
		csvText, err := workbookToCSV(path)
		if err != nil {
			return "", "", err
		}
		return name, csvText, nil

	case ".csv":
		csvText, err := readCSV(path)
		if err != nil {
			return "", "", err
		}
		return name, csvText, nil

	default:
		return "", "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func workbookToCSV(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to encode row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode sheet: %w", err)
	}

	return buf.String(), nil
}

// readCSV validates the file parses as CSV and returns its text unchanged
func readCSV(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	if _, err := r.ReadAll(); err != nil {
		return "", fmt.Errorf("invalid CSV: %w", err)
	}

	return string(data), nil
}
