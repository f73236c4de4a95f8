package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/utils"
)

// ResultStore serializes analysis result bundles into the reports directory,
// one JSON file per analysis category, plus an XLSX summary workbook.
type ResultStore struct {
	dir    string
	logger *utils.Logger
}

// NewResultStore creates a ResultStore rooted at the reports directory.
func NewResultStore(dir string, logger *utils.Logger) *ResultStore {
	return &ResultStore{dir: dir, logger: logger}
}

// SaveJSON writes one analysis result bundle as <reports>/<name>.json.
func (s *ResultStore) SaveJSON(name string, results any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("results: create dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("results: marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("results: write %s: %w", path, err)
	}

	s.logger.Info("[results] Saved %s", path)
	return nil
}

// SheetTable is one titled distribution table inside a workbook sheet.
type SheetTable struct {
	Title string
	Dist  models.Distribution
}

// Sheet is one workbook sheet holding a sequence of distribution tables.
type Sheet struct {
	Name   string
	Tables []SheetTable
}

// SaveWorkbook writes an XLSX summary with one sheet per analysis category.
func (s *ResultStore) SaveWorkbook(filename string, sheets []Sheet) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("results: create dir %s: %w", s.dir, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// reuse the default sheet for the first category
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("results: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("results: add sheet %s: %w", sheet.Name, err)
		}

		row := 1
		for _, table := range sheet.Tables {
			if err := writeTable(f, sheet.Name, table, &row); err != nil {
				return err
			}
		}
	}

	path := filepath.Join(s.dir, filename)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("results: save workbook %s: %w", path, err)
	}

	s.logger.Info("[results] Saved %s", path)
	return nil
}

func writeTable(f *excelize.File, sheet string, table SheetTable, row *int) error {
	set := func(col int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, *row)
		if err != nil {
			return fmt.Errorf("results: cell name: %w", err)
		}
		return f.SetCellValue(sheet, cell, v)
	}

	if err := set(1, table.Title); err != nil {
		return err
	}
	*row++

	for col, header := range []string{"Category", "Count", "Percentage"} {
		if err := set(col+1, header); err != nil {
			return err
		}
	}
	*row++

	for _, e := range table.Dist {
		if err := set(1, e.Label); err != nil {
			return err
		}
		if err := set(2, e.Count); err != nil {
			return err
		}
		if err := set(3, e.Percentage); err != nil {
			return err
		}
		*row++
	}

	// blank separator row between tables
	*row++
	return nil
}
