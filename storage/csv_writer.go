package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"furniture-survey-analysis/utils"
)

// CSVWriter persists the cleaned survey table to the processed data path.
type CSVWriter struct {
	path   string
	logger *utils.Logger
}

// NewCSVWriter creates a CSVWriter for the given path. Intermediate
// directories are created automatically.
func NewCSVWriter(path string, logger *utils.Logger) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path, logger: logger}, nil
}

// Write truncates the file and writes the table with its header row. The
// file handle is scoped to this call.
func (c *CSVWriter) Write(df dataframe.DataFrame) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("csv: write %q: %w", c.path, err)
	}

	c.logger.Info("[csv] Cleaned data saved to %s", c.path)
	return nil
}
