package storage

import (
	"github.com/go-gota/gota/dataframe"

	"furniture-survey-analysis/models"
)

// FeatureWriter is the interface any feature-row storage backend must satisfy.
type FeatureWriter interface {
	Write(rows []*models.FeatureRow) error
	FetchAll() ([]*models.FeatureRow, error)
	Close() error
}

// TableWriter is the interface for persisting the cleaned survey table.
type TableWriter interface {
	Write(df dataframe.DataFrame) error
}
