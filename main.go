package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"furniture-survey-analysis/config"
	"furniture-survey-analysis/ingest"
	"furniture-survey-analysis/models"
	"furniture-survey-analysis/services"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Furniture Survey Analysis starting ===")
	logger.Info("Config | raw: %s | figures: %s | reports: %s | seed: %d",
		cfg.RawDataPath, cfg.FiguresDir, cfg.ReportsDir, cfg.RandomSeed)

	if err := cfg.VerifyDataFile(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	if err := cfg.VerifyDirectories(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	meta := models.RunMeta{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
	logger.Info("Run ID: %s", meta.RunID)

	loader := ingest.New(cfg, logger)
	raw, err := loader.Load()
	if err != nil {
		logger.Error("Failed to load survey data: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d responses with %d columns", raw.Nrow(), raw.Ncol())

	cleaner := services.NewCleaner(logger)
	df, err := cleaner.Clean(raw)
	if err != nil {
		logger.Error("Cleaning failed: %v", err)
		os.Exit(1)
	}
	if df.Nrow() == 0 {
		logger.Error("All responses were dropped during cleaning. Exiting.")
		os.Exit(1)
	}
	meta.Respondents = df.Nrow()
	logger.Info("Cleaned dataset: %d furniture buyers", df.Nrow())

	csvWriter, err := storage.NewCSVWriter(cfg.ProcessedDataPath, logger)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	if err := csvWriter.Write(df); err != nil {
		logger.Error("CSV write failed: %v", err)
	}

	features, err := services.ExtractFeatures(df)
	if err != nil {
		logger.Error("Feature extraction failed: %v", err)
		os.Exit(1)
	}

	if cfg.PostgresEnabled {
		features = persistFeatures(cfg, logger, features)
	}

	figures := storage.NewFigureStore(cfg, logger)
	results := storage.NewResultStore(cfg.ReportsDir, logger)

	demographics, err := services.NewDemographicAnalyzer(df, figures, logger).Analyze(meta)
	if err != nil {
		logger.Error("Demographic analysis failed: %v", err)
		os.Exit(1)
	}
	brand, err := services.NewBrandAnalyzer(df, figures, logger).Analyze(meta)
	if err != nil {
		logger.Error("Brand analysis failed: %v", err)
		os.Exit(1)
	}
	preferences, err := services.NewPreferenceAnalyzer(df, figures, logger).Analyze(meta)
	if err != nil {
		logger.Error("Preference analysis failed: %v", err)
		os.Exit(1)
	}
	statistics, err := services.NewStatisticalAnalyzer(features, figures, logger).Analyze(meta)
	if err != nil {
		logger.Error("Statistical analysis failed: %v", err)
		os.Exit(1)
	}
	advanced, err := services.NewAdvancedAnalyzer(features, cfg, figures, logger).Analyze(meta)
	if err != nil {
		logger.Error("Advanced analysis failed: %v", err)
		os.Exit(1)
	}

	saved := map[string]any{
		"demographic_analysis": demographics,
		"brand_analysis":       brand,
		"preference_analysis":  preferences,
		"statistical_analysis": statistics,
		"advanced_analysis":    advanced,
	}
	for name, report := range saved {
		if err := results.SaveJSON(name, report); err != nil {
			logger.Error("Failed to save %s: %v", name, err)
		}
	}

	sheets := summarySheets(demographics, brand, preferences)
	if err := results.SaveWorkbook("survey_summary.xlsx", sheets); err != nil {
		logger.Error("Failed to save summary workbook: %v", err)
	}

	fmt.Printf("  Done. Clean CSV -> %s | Figures -> %s | Reports -> %s\n\n",
		cfg.ProcessedDataPath, cfg.FiguresDir, cfg.ReportsDir)
}

// persistFeatures round-trips the derived features through PostgreSQL so the
// statistical analyzers consume the same rows any downstream reader would.
// On any failure it falls back to the in-memory features.
func persistFeatures(cfg *config.Config, logger *utils.Logger, features *models.FeatureSet) *models.FeatureSet {
	retry := &utils.RetryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second, Logger: logger}
	pg, err := storage.NewPostgresWriter(cfg.DSN(), retry)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		return features
	}
	defer pg.Close()

	if err := pg.Write(features.Rows()); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return features
	}
	logger.Info("Features stored in PostgreSQL (table: survey_features)")

	rows, err := pg.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch features from DB: %v", err)
		return features
	}
	return models.FeatureSetFromRows(rows)
}

func summarySheets(d *models.DemographicReport, b *models.BrandReport, p *models.PreferenceReport) []storage.Sheet {
	demographic := storage.Sheet{Name: "Demographics"}
	for _, key := range []string{"age", "gender", "occupation", "income"} {
		if dist, ok := d.Distributions[key]; ok {
			demographic.Tables = append(demographic.Tables, storage.SheetTable{Title: key, Dist: dist})
		}
	}

	brand := storage.Sheet{Name: "Brand"}
	for _, key := range []string{"familiarity", "feedback", "purchase"} {
		if dist, ok := b.Awareness[key]; ok {
			brand.Tables = append(brand.Tables, storage.SheetTable{Title: key, Dist: dist})
		}
	}
	brand.Tables = append(brand.Tables, storage.SheetTable{Title: "non_purchase_reasons", Dist: b.NonPurchaseReasons})

	preference := storage.Sheet{
		Name: "Preferences",
		Tables: []storage.SheetTable{
			{Title: "furniture_types", Dist: p.Types},
			{Title: "purchase_factors", Dist: p.Factors},
			{Title: "room_priorities", Dist: p.RoomPriorities},
		},
	}
	for _, key := range []string{"make_preference", "channel_preference", "info_sources", "timing_preference"} {
		if dist, ok := p.Shopping[key]; ok {
			preference.Tables = append(preference.Tables, storage.SheetTable{Title: key, Dist: dist})
		}
	}

	return []storage.Sheet{demographic, brand, preference}
}
