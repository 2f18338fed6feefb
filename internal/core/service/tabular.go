package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

// table is the parsed form of an upload: the header row plus the data rows in
// file order. Rows may be ragged; cells beyond a row's length read as empty.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// supportedFormat reports whether the filename carries an accepted tabular
// extension. The gate runs before any bytes are read.
func supportedFormat(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// parseTable reads an upload into a table, dispatching on file extension.
// Any structural failure wraps domain.ErrParse.
func parseTable(filename string, r io.Reader) (*table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return parseXLSX(r)
	}
	return parseCSV(r)
}

func parseCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	// Rows with missing trailing cells are a per-row concern, not a file-level
	// parse failure.
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", domain.ErrParse)
	}
	return &table{headers: records[0], rows: records[1:]}, nil
}

func parseXLSX(r io.Reader) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrParse)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", domain.ErrParse, sheets[0])
	}
	return &table{headers: rows[0], rows: rows[1:]}, nil
}
