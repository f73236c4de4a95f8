package services

import (
	"fmt"
	"sort"
	"strconv"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

const categoryStatistical = "statistical"

// StatisticalAnalyzer computes the correlation matrix with significance,
// distribution statistics for age and income, and the brand metric analyses
// over the derived numeric features.
type StatisticalAnalyzer struct {
	features *models.FeatureSet
	figures  *storage.FigureStore
	logger   *utils.Logger
}

// NewStatisticalAnalyzer creates an analyzer over the derived feature columns.
func NewStatisticalAnalyzer(features *models.FeatureSet, figures *storage.FigureStore, logger *utils.Logger) *StatisticalAnalyzer {
	return &StatisticalAnalyzer{features: features, figures: figures, logger: logger}
}

// Analyze computes correlations, distribution statistics and brand metrics,
// renders the statistical charts, and prints the console summary.
func (a *StatisticalAnalyzer) Analyze(meta models.RunMeta) (*models.StatisticalReport, error) {
	a.logger.Info("[statistics] Starting statistical analysis")

	corr, pvals := a.correlationMatrices()

	report := &models.StatisticalReport{
		Meta:                meta,
		FeatureNames:        models.FeatureColumns,
		CorrelationMatrix:   corr,
		PValues:             pvals,
		AgeStats:            distributionStats(a.features.Age),
		IncomeStats:         distributionStats(a.features.Income),
		FamiliarityStats:    scoreStats(a.features.Familiarity),
		RecommendationStats: scoreStats(a.features.Recommendation),
	}

	// The zero-fill before the test mirrors the established policy; on a
	// cleaned table it changes nothing.
	r, p := PearsonTest(ZeroFill(a.features.Familiarity), ZeroFill(a.features.Recommendation))
	report.FamiliarityRecommend = models.Correlation{R: r, PValue: p}

	if err := a.createPlots(report); err != nil {
		return nil, err
	}
	a.printSummary(report)

	a.logger.Info("[statistics] Statistical analysis completed")
	return report, nil
}

// correlationMatrices computes the Pearson matrix and a paired p-value matrix
// over the four feature columns. Each p-value is computed independently per
// cell pair with zero-filled inputs; diagonal p-values are fixed at 1.
func (a *StatisticalAnalyzer) correlationMatrices() (corr, pvals [][]float64) {
	cols := a.features.Columns()
	n := len(cols)

	corr = make([][]float64, n)
	pvals = make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		pvals[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				corr[i][j] = 1
				pvals[i][j] = 1
				continue
			}
			r, p := PearsonTest(ZeroFill(cols[i]), ZeroFill(cols[j]))
			corr[i][j] = r
			pvals[i][j] = p
		}
	}
	return corr, pvals
}

func distributionStats(xs []float64) models.DistributionStats {
	statistic, p := NormalTest(xs)
	return models.DistributionStats{
		Mean:   meanOf(xs),
		Median: medianOf(xs),
		Std:    stdOf(xs),
		Skew:   skewOf(xs),
		Normality: models.NormalityTest{
			Statistic: statistic,
			PValue:    p,
		},
	}
}

func scoreStats(xs []float64) models.ScoreStats {
	return models.ScoreStats{
		Mean:         meanOf(xs),
		Median:       medianOf(xs),
		Std:          stdOf(xs),
		Distribution: floatDistribution(xs),
	}
}

// floatDistribution tabulates a numeric score column into a distribution
// sorted by ascending value.
func floatDistribution(xs []float64) models.Distribution {
	counts := make(map[float64]int)
	for _, v := range xs {
		if isNaN(v) {
			continue
		}
		counts[v]++
	}

	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)

	dist := make(models.Distribution, 0, len(values))
	for _, v := range values {
		pct := 0.0
		if len(xs) > 0 {
			pct = models.Round1(float64(counts[v]) / float64(len(xs)) * 100)
		}
		dist = append(dist, models.DistEntry{
			Label:      strconv.FormatFloat(v, 'g', -1, 64),
			Count:      counts[v],
			Percentage: pct,
		})
	}
	return dist
}

func (a *StatisticalAnalyzer) createPlots(r *models.StatisticalReport) error {
	p, err := correlationHeatmap(r.FeatureNames, r.CorrelationMatrix, "Correlation Matrix of Numeric Variables")
	if err != nil {
		return err
	}
	if err := a.figures.Save(p, "correlation_matrix", categoryStatistical); err != nil {
		return err
	}

	if a.features.Len() > 0 {
		p, err := scatterChart(a.features.Age, a.features.Income,
			"Age vs Income Distribution", "Age", "Income (BDT)")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "age_income_scatter", categoryStatistical); err != nil {
			return err
		}
	}

	histograms := []struct {
		dist  models.Distribution
		title string
		name  string
	}{
		{r.FamiliarityStats.Distribution, "Distribution of Isho Familiarity Scores", "familiarity_score_distribution"},
		{r.RecommendationStats.Distribution, "Distribution of Recommendation Scores", "recommendation_score_distribution"},
	}
	for _, h := range histograms {
		if h.dist.Empty() {
			continue
		}
		p, err := barChart(h.dist, h.title, "Score", "Count")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, h.name, categoryStatistical); err != nil {
			return err
		}
	}

	return nil
}

func (a *StatisticalAnalyzer) printSummary(r *models.StatisticalReport) {
	printHeader("STATISTICAL ANALYSIS")

	printSection("Significant Correlations (p < 0.05)")
	found := false
	for i := 0; i < len(r.FeatureNames); i++ {
		for j := i + 1; j < len(r.FeatureNames); j++ {
			if r.PValues[i][j] < 0.05 {
				fmt.Printf("  %s vs %s: r = %.3f, p = %.3f\n",
					r.FeatureNames[i], r.FeatureNames[j],
					r.CorrelationMatrix[i][j], r.PValues[i][j])
				found = true
			}
		}
	}
	if !found {
		fmt.Println("  None")
	}

	printSection("Age Statistics")
	fmt.Printf("  Mean: %.1f\n  Median: %.1f\n  Std Dev: %.1f\n  Skewness: %.3f\n",
		r.AgeStats.Mean, r.AgeStats.Median, r.AgeStats.Std, r.AgeStats.Skew)

	printSection("Income Statistics")
	fmt.Printf("  Mean: %.0f BDT\n  Median: %.0f BDT\n  Std Dev: %.0f BDT\n  Skewness: %.3f\n",
		r.IncomeStats.Mean, r.IncomeStats.Median, r.IncomeStats.Std, r.IncomeStats.Skew)

	printSection("Brand Metrics")
	fmt.Printf("\n  Familiarity Score: mean %.2f, median %.2f, std %.2f\n",
		r.FamiliarityStats.Mean, r.FamiliarityStats.Median, r.FamiliarityStats.Std)
	fmt.Printf("  Recommendation Score: mean %.2f, median %.2f, std %.2f\n",
		r.RecommendationStats.Mean, r.RecommendationStats.Median, r.RecommendationStats.Std)
	fmt.Printf("\n  Familiarity-Recommendation Correlation: r = %.3f, p = %.3f\n",
		r.FamiliarityRecommend.R, r.FamiliarityRecommend.PValue)

	printFooter()
}
