package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/olekukonko/tablewriter"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

const categoryDemographics = "demographics"

// DemographicAnalyzer computes frequency distributions and cross-tabulations
// over the demographic survey fields.
type DemographicAnalyzer struct {
	df      dataframe.DataFrame
	figures *storage.FigureStore
	logger  *utils.Logger
}

// NewDemographicAnalyzer creates an analyzer over the cleaned survey table.
func NewDemographicAnalyzer(df dataframe.DataFrame, figures *storage.FigureStore, logger *utils.Logger) *DemographicAnalyzer {
	return &DemographicAnalyzer{df: df, figures: figures, logger: logger}
}

// Analyze computes distributions and cross-tabs, renders the demographic
// charts, and prints the console summary.
func (a *DemographicAnalyzer) Analyze(meta models.RunMeta) (*models.DemographicReport, error) {
	a.logger.Info("[demographics] Starting demographic analysis")
	total := a.df.Nrow()

	fields := map[string]string{
		"age":        models.ColAgeGroup,
		"gender":     models.ColGender,
		"occupation": models.ColOccupation,
		"income":     models.ColIncomeRange,
	}

	distributions := make(map[string]models.Distribution, len(fields))
	for name, col := range fields {
		dist, err := ValueCounts(a.df, col, total)
		if err != nil {
			return nil, err
		}
		distributions[name] = dist
	}

	crossPairs := []struct {
		name   string
		rowCol string
		colCol string
	}{
		{"age_gender", models.ColAgeGroup, models.ColGender},
		{"income_occupation", models.ColIncomeRange, models.ColOccupation},
		{"age_income", models.ColAgeGroup, models.ColIncomeRange},
	}

	crossTabs := make(map[string]*models.CrossTab, len(crossPairs))
	for _, pair := range crossPairs {
		ct, err := CrossTab(a.df, pair.rowCol, pair.colCol)
		if err != nil {
			return nil, err
		}
		crossTabs[pair.name] = ct
	}

	if err := a.createPlots(distributions, crossTabs); err != nil {
		return nil, err
	}

	report := &models.DemographicReport{
		Meta:          meta,
		Distributions: distributions,
		CrossTabs:     crossTabs,
	}
	a.printSummary(report)

	a.logger.Info("[demographics] Demographic analysis completed")
	return report, nil
}

func (a *DemographicAnalyzer) createPlots(distributions map[string]models.Distribution, crossTabs map[string]*models.CrossTab) error {
	horizontal := []struct {
		key  string
		name string
	}{
		{"age", "age_distribution"},
		{"occupation", "occupation_distribution"},
		{"income", "income_distribution"},
	}
	for _, h := range horizontal {
		dist := distributions[h.key]
		if dist.Empty() {
			continue
		}
		p, err := horizontalBarChart(dist, titleCase(h.key)+" Distribution", "Count", "Category")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, h.name, categoryDemographics); err != nil {
			return err
		}
	}

	if gender := distributions["gender"]; !gender.Empty() {
		p, err := percentageBarChart(gender, "Gender Distribution")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "gender_distribution", categoryDemographics); err != nil {
			return err
		}
	}

	if ct := crossTabs["age_gender"]; len(ct.Rows) > 0 {
		p, err := stackedBarChart(ct, "Age Distribution by Gender")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "age_distribution_by_gender", categoryDemographics); err != nil {
			return err
		}
	}

	heatmaps := []struct {
		key   string
		title string
		name  string
	}{
		{"income_occupation", "Income Distribution by Occupation", "income_distribution_by_occupation"},
		{"age_income", "Age Distribution by Income", "age_distribution_by_income"},
	}
	for _, h := range heatmaps {
		ct := crossTabs[h.key]
		if len(ct.Rows) == 0 {
			continue
		}
		p, err := heatmapChart(ct, h.title)
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, h.name, categoryDemographics); err != nil {
			return err
		}
	}

	return nil
}

func (a *DemographicAnalyzer) printSummary(r *models.DemographicReport) {
	printHeader("DEMOGRAPHIC SUMMARY")

	printSection("Basic Distributions")
	for _, key := range []string{"age", "gender", "occupation", "income"} {
		dist := r.Distributions[key]
		if dist.Empty() {
			continue
		}
		fmt.Printf("\n\033[1;33m  %s\033[0m\n", titleCase(key))
		for _, e := range dist {
			fmt.Printf("  %-36s %4d (%.1f%%)\n", e.Label, e.Count, e.Percentage)
		}
	}

	printSection("Cross-Tabulation Analysis")
	for _, key := range []string{"age_gender", "income_occupation", "age_income"} {
		printCrossTab(r.CrossTabs[key], strings.ReplaceAll(key, "_", " vs "))
	}

	printFooter()
}

// printCrossTab renders a count matrix as a console table.
func printCrossTab(ct *models.CrossTab, title string) {
	if ct == nil || len(ct.Rows) == 0 {
		return
	}

	fmt.Printf("\n\033[1;33m  %s\033[0m\n", titleCase(title))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(append([]string{""}, ct.Cols...))
	for i, rowLabel := range ct.Rows {
		row := make([]string, 0, len(ct.Cols)+1)
		row = append(row, rowLabel)
		for _, count := range ct.Counts[i] {
			row = append(row, strconv.Itoa(count))
		}
		table.Append(row)
	}
	table.Render()
}

// titleCase capitalizes each word of a display label.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func printHeader(title string) {
	sep := strings.Repeat("═", 54)
	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  %s\033[0m\n", title)
	fmt.Printf("\033[1;35m%s\033[0m\n", sep)
}

func printSection(title string) {
	thin := strings.Repeat("─", 54)
	fmt.Printf("\n\033[1m  %s\033[0m\n  %s\n", title, thin)
}

func printFooter() {
	sep := strings.Repeat("═", 54)
	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
