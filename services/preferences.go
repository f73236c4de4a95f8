package services

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

const categoryPreferences = "preferences"

// PreferenceAnalyzer computes furniture-type, purchase-factor, room-priority
// and shopping-behavior breakdowns. Multi-select questions are tabulated by
// comma-split indicator sums.
type PreferenceAnalyzer struct {
	df      dataframe.DataFrame
	figures *storage.FigureStore
	logger  *utils.Logger
}

// NewPreferenceAnalyzer creates an analyzer over the cleaned survey table.
func NewPreferenceAnalyzer(df dataframe.DataFrame, figures *storage.FigureStore, logger *utils.Logger) *PreferenceAnalyzer {
	return &PreferenceAnalyzer{df: df, figures: figures, logger: logger}
}

// Analyze computes the preference breakdowns, renders charts, and prints the
// console summary.
func (a *PreferenceAnalyzer) Analyze(meta models.RunMeta) (*models.PreferenceReport, error) {
	a.logger.Info("[preferences] Starting preference analysis")
	total := a.df.Nrow()

	types, err := SplitCounts(a.df, models.ColFurnitureType, ",", total)
	if err != nil {
		return nil, err
	}
	factors, err := SplitCounts(a.df, models.ColPurchaseFactors, ",", total)
	if err != nil {
		return nil, err
	}
	rooms, err := SplitCounts(a.df, models.ColPriorityRoom, ",", total)
	if err != nil {
		return nil, err
	}
	shopping, err := a.shoppingPreferences(total)
	if err != nil {
		return nil, err
	}

	report := &models.PreferenceReport{
		Meta:           meta,
		Types:          types,
		Factors:        factors,
		RoomPriorities: rooms,
		Shopping:       shopping,
	}

	if err := a.createPlots(report); err != nil {
		return nil, err
	}
	a.printSummary(report)

	a.logger.Info("[preferences] Preference analysis completed")
	return report, nil
}

func (a *PreferenceAnalyzer) shoppingPreferences(total int) (map[string]models.Distribution, error) {
	makePref, err := ValueCounts(a.df, models.ColMakePreference, total)
	if err != nil {
		return nil, err
	}
	channel, err := ValueCounts(a.df, models.ColShopChannel, total)
	if err != nil {
		return nil, err
	}
	infoSources, err := SplitCounts(a.df, models.ColInfoSources, ",", total)
	if err != nil {
		return nil, err
	}
	timing, err := ValueCounts(a.df, models.ColBuyTiming, total)
	if err != nil {
		return nil, err
	}
	reasons, err := SplitCounts(a.df, models.ColPurchaseReason, ",", total)
	if err != nil {
		return nil, err
	}

	return map[string]models.Distribution{
		"make_preference":    makePref,
		"channel_preference": channel,
		"info_sources":       infoSources,
		"timing_preference":  timing,
		"purchase_reasons":   reasons,
	}, nil
}

func (a *PreferenceAnalyzer) createPlots(r *models.PreferenceReport) error {
	horizontal := []struct {
		dist   models.Distribution
		title  string
		ylabel string
		name   string
	}{
		{r.Types, "Furniture Type Preferences", "Furniture Type", "furniture_type_preferences"},
		{r.Factors, "Important Purchase Factors", "Factor", "important_purchase_factors"},
		{r.RoomPriorities, "Room Priorities", "Room", "room_priorities"},
	}
	for _, h := range horizontal {
		if h.dist.Empty() {
			continue
		}
		p, err := horizontalBarChart(h.dist, h.title, "Number of Consumers", h.ylabel)
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, h.name, categoryPreferences); err != nil {
			return err
		}
	}

	shopping := []struct {
		key   string
		title string
		name  string
		head  int
	}{
		{"make_preference", "Ready-made vs Custom-made Preference", "shopping_make_preference", 0},
		{"channel_preference", "Shopping Channel Preference", "shopping_channel_preference", 0},
		{"info_sources", "Information Sources", "shopping_info_sources", 0},
		{"timing_preference", "Preferred Purchase Timing", "shopping_timing_preference", 0},
		{"purchase_reasons", "Top 5 Purchase Reasons", "shopping_purchase_reasons", 5},
	}
	for _, sp := range shopping {
		dist := r.Shopping[sp.key]
		if dist.Empty() {
			continue
		}
		if sp.head > 0 {
			dist = dist.Head(sp.head)
		}
		p, err := barChart(dist, sp.title, "", "Number of Consumers")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, sp.name, categoryPreferences); err != nil {
			return err
		}
	}

	return nil
}

func (a *PreferenceAnalyzer) printSummary(r *models.PreferenceReport) {
	printHeader("FURNITURE PREFERENCE ANALYSIS")

	sections := []struct {
		title string
		dist  models.Distribution
	}{
		{"Top Furniture Types", r.Types},
		{"Most Important Purchase Factors", r.Factors},
		{"Room Priorities", r.RoomPriorities},
		{"Ready-made vs Custom-made", r.Shopping["make_preference"]},
		{"Shopping Channels", r.Shopping["channel_preference"]},
		{"Information Sources", r.Shopping["info_sources"]},
		{"Preferred Purchase Timing", r.Shopping["timing_preference"]},
	}
	for _, s := range sections {
		if s.dist.Empty() {
			continue
		}
		printSection(s.title)
		for _, e := range s.dist {
			fmt.Printf("  %-38s %.1f%%\n", e.Label, e.Percentage)
		}
	}

	printFooter()
}
