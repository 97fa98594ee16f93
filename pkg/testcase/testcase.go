// Package testcase loads test cases from spreadsheets. One row is one
// test case; its step columns form the ordered step sequence.
package testcase

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
)

// TestCase is one spreadsheet row: identity, metadata, and the ordered
// steps. Immutable once loaded.
type TestCase struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Steps       []string
	File        string // Base name of the source spreadsheet
}

// Required header columns, ahead of the Step columns.
var requiredColumns = []string{"Test ID", "Test Name", "Description"}

// Load reads every test case from the first sheet of an .xlsx file.
// Rows without any step are dropped; blank step cells are skipped; a
// missing Enabled column defaults to true.
func Load(path string) ([]TestCase, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, core.ErrRepositoryStore.WithMessage(
			fmt.Sprintf("test case file not found: %s", path))
	}
	if !strings.HasSuffix(path, ".xlsx") {
		return nil, core.ErrRepositoryStore.WithMessage(
			fmt.Sprintf("file must be an Excel file (.xlsx): %s", path))
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.ErrRepositoryStore.WithCause(
			fmt.Errorf("open %s: %w", path, err))
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrRepositoryStore.WithMessage(
			fmt.Sprintf("no sheets in %s", path))
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, core.ErrRepositoryStore.WithCause(err)
	}
	if len(rows) == 0 {
		return nil, core.ErrRepositoryStore.WithMessage(
			fmt.Sprintf("empty sheet in %s", path))
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	var stepColumns []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		columns[name] = i
		if strings.HasPrefix(name, "Step") {
			stepColumns = append(stepColumns, i)
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, core.ErrRepositoryStore.WithMessage(
				fmt.Sprintf("required column %q not found in %s", required, path))
		}
	}
	if len(stepColumns) == 0 {
		return nil, core.ErrRepositoryStore.WithMessage(
			fmt.Sprintf("no step columns found in %s, column names should start with 'Step'", path))
	}

	base := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		base = path[idx+1:]
	}

	var cases []TestCase
	for _, row := range rows[1:] {
		tc := TestCase{
			ID:          cell(row, columns["Test ID"]),
			Name:        cell(row, columns["Test Name"]),
			Description: cell(row, columns["Description"]),
			Enabled:     true,
			File:        base,
		}
		if idx, ok := columns["Enabled"]; ok {
			if v := cell(row, idx); v != "" {
				tc.Enabled = parseBool(v)
			}
		}
		for _, idx := range stepColumns {
			if s := cell(row, idx); s != "" {
				tc.Steps = append(tc.Steps, s)
			}
		}
		if len(tc.Steps) > 0 {
			cases = append(cases, tc)
		}
	}
	return cases, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "false", "no", "0", "n":
		return false
	}
	return true
}
