package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"furniture-survey-analysis/config"
	"furniture-survey-analysis/utils"
)

// FigureStore writes rendered figures as PNG files under a category
// subdirectory of the figures directory.
type FigureStore struct {
	baseDir string
	width   vg.Length
	height  vg.Length
	show    bool
	logger  *utils.Logger
}

// NewFigureStore creates a FigureStore using the configured figure directory
// and plot dimensions.
func NewFigureStore(cfg *config.Config, logger *utils.Logger) *FigureStore {
	return &FigureStore{
		baseDir: cfg.FiguresDir,
		width:   vg.Length(cfg.PlotWidthInches) * vg.Inch,
		height:  vg.Length(cfg.PlotHeightInches) * vg.Inch,
		show:    cfg.ShowPlots,
		logger:  logger,
	}
}

// Save writes the figure under <figures>/<category>/<name>.png and releases
// it. The file handle is scoped to this call.
func (s *FigureStore) Save(p *plot.Plot, name, category string) error {
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("figures: create dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".png")
	if err := p.Save(s.width, s.height, path); err != nil {
		return fmt.Errorf("figures: save %s: %w", path, err)
	}

	if s.show {
		s.logger.Info("[figures] Wrote %s (open to view)", path)
	} else {
		s.logger.Debug("[figures] Wrote %s", path)
	}
	return nil
}
