package ingest

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"furniture-survey-analysis/config"
	"furniture-survey-analysis/utils"
)

// Loader reads the raw survey CSV into a string-typed table. All typing is
// deferred to the cleaner so coercion failures surface as missing values
// there, not as load-time parse surprises.
type Loader struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a Loader for the configured raw data path.
func New(cfg *config.Config, logger *utils.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

// Load reads the raw CSV and returns the survey table.
func (l *Loader) Load() (dataframe.DataFrame, error) {
	f, err := os.Open(l.cfg.RawDataPath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ingest: open %s: %w", l.cfg.RawDataPath, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ingest: read %s: %w", l.cfg.RawDataPath, df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("ingest: %s contains no responses", l.cfg.RawDataPath)
	}

	l.logger.Info("[ingest] Loaded %d responses, %d columns from %s",
		df.Nrow(), df.Ncol(), l.cfg.RawDataPath)
	return df, nil
}
