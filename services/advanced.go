package services

import (
	"fmt"
	"math/rand"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"furniture-survey-analysis/config"
	"furniture-survey-analysis/models"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

const categoryAdvanced = "advanced"

// AdvancedAnalyzer performs outlier detection, PCA, k-means clustering and
// bootstrap estimation over the derived numeric features. Missing values are
// mean-imputed here, a deliberately different policy from the cleaner's
// zero-fill.
type AdvancedAnalyzer struct {
	features *models.FeatureSet
	cfg      *config.Config
	figures  *storage.FigureStore
	logger   *utils.Logger
}

// NewAdvancedAnalyzer mean-imputes the feature set and returns the analyzer.
func NewAdvancedAnalyzer(features *models.FeatureSet, cfg *config.Config, figures *storage.FigureStore, logger *utils.Logger) *AdvancedAnalyzer {
	imputed := &models.FeatureSet{
		Age:            MeanImpute(features.Age),
		Income:         MeanImpute(features.Income),
		Familiarity:    MeanImpute(features.Familiarity),
		Recommendation: MeanImpute(features.Recommendation),
	}
	return &AdvancedAnalyzer{features: imputed, cfg: cfg, figures: figures, logger: logger}
}

// Analyze runs the full advanced battery, renders its charts, and prints the
// console summary.
func (a *AdvancedAnalyzer) Analyze(meta models.RunMeta) (*models.AdvancedReport, error) {
	a.logger.Info("[advanced] Starting advanced statistical analysis")

	pearson, spearman := a.correlationMatrices()

	report := &models.AdvancedReport{
		Meta:        meta,
		Outliers:    a.detectOutliers(),
		Pearson:     pearson,
		Spearman:    spearman,
		EffectSizes: a.effectSizes(),
	}

	report.Bootstrap = a.bootstrapRecommendation()

	pca, err := a.runPCA()
	if err != nil {
		return nil, err
	}
	report.PCA = pca

	clustering, err := a.clusterAnalysis()
	if err != nil {
		return nil, err
	}
	report.Clustering = clustering

	if err := a.createPlots(report); err != nil {
		return nil, err
	}
	a.printSummary(report)

	a.logger.Info("[advanced] Advanced statistical analysis completed")
	return report, nil
}

// detectOutliers flags values outside the 1.5*IQR fences, per column
// independently.
func (a *AdvancedAnalyzer) detectOutliers() map[string]models.OutlierResult {
	outliers := make(map[string]models.OutlierResult, len(models.FeatureColumns))
	for i, col := range a.features.Columns() {
		q1 := quantileOf(col, 0.25)
		q3 := quantileOf(col, 0.75)
		iqr := q3 - q1
		lower := q1 - 1.5*iqr
		upper := q3 + 1.5*iqr

		result := models.OutlierResult{LowerBound: lower, UpperBound: upper}
		for idx, v := range col {
			if v < lower || v > upper {
				result.Indices = append(result.Indices, idx)
				result.Values = append(result.Values, v)
			}
		}
		outliers[models.FeatureColumns[i]] = result
	}
	return outliers
}

func (a *AdvancedAnalyzer) correlationMatrices() (pearson, spearman [][]float64) {
	cols := a.features.Columns()
	n := len(cols)

	pearson = make([][]float64, n)
	spearman = make([][]float64, n)
	for i := range pearson {
		pearson[i] = make([]float64, n)
		spearman[i] = make([]float64, n)
		for j := range pearson[i] {
			if i == j {
				pearson[i][j] = 1
				spearman[i][j] = 1
				continue
			}
			pearson[i][j] = stat.Correlation(cols[i], cols[j], nil)
			spearman[i][j] = SpearmanCorrelation(cols[i], cols[j])
		}
	}
	return pearson, spearman
}

func (a *AdvancedAnalyzer) effectSizes() map[string]models.EffectSize {
	sizes := make(map[string]models.EffectSize, 2)

	r, p := PearsonTest(a.features.Income, a.features.Familiarity)
	sizes["income_familiarity"] = models.EffectSize{Correlation: r, PValue: p, EffectSize: abs(r)}

	r, p = PearsonTest(a.features.Age, a.features.Recommendation)
	sizes["age_recommendation"] = models.EffectSize{Correlation: r, PValue: p, EffectSize: abs(r)}

	return sizes
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// bootstrapRecommendation resamples the recommendation scores with
// replacement and reports the empirical 95% interval of the mean.
func (a *AdvancedAnalyzer) bootstrapRecommendation() models.BootstrapResult {
	scores := dropNaN(a.features.Recommendation)
	result := models.BootstrapResult{}
	if len(scores) == 0 {
		return result
	}

	result.OriginalMean = stat.Mean(scores, nil)

	iterations := a.cfg.BootstrapIterations
	rng := rand.New(rand.NewSource(a.cfg.RandomSeed))
	bar := progressbar.Default(int64(iterations), "bootstrap")

	means := make([]float64, iterations)
	sample := make([]float64, len(scores))
	for i := 0; i < iterations; i++ {
		for j := range sample {
			sample[j] = scores[rng.Intn(len(scores))]
		}
		means[i] = stat.Mean(sample, nil)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	result.Means = means
	result.CILower = quantileOf(means, 0.025)
	result.CIUpper = quantileOf(means, 0.975)
	return result
}

// runPCA standardizes the features and performs full-rank PCA.
func (a *AdvancedAnalyzer) runPCA() (models.PCAResult, error) {
	cols := Standardize(a.features.Columns())
	rows := rowsFromColumns(cols)
	if len(rows) < len(cols) {
		return models.PCAResult{}, fmt.Errorf("advanced: pca needs at least %d rows, have %d", len(cols), len(rows))
	}

	data := mat.NewDense(len(rows), len(cols), nil)
	for i, row := range rows {
		data.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return models.PCAResult{}, fmt.Errorf("advanced: pca decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	totalVar := 0.0
	for _, v := range vars {
		totalVar += v
	}

	explained := make([]float64, len(vars))
	cumulative := make([]float64, len(vars))
	running := 0.0
	for i, v := range vars {
		explained[i] = v / totalVar
		running += explained[i]
		cumulative[i] = running
	}

	// loadings[k] is component k expressed over the feature columns
	loadings := make([][]float64, len(vars))
	for k := range loadings {
		loadings[k] = make([]float64, len(cols))
		for f := range cols {
			loadings[k][f] = vecs.At(f, k)
		}
	}

	var projected mat.Dense
	projected.Mul(data, &vecs)
	scores := make([][]float64, len(rows))
	for i := range scores {
		scores[i] = mat.Row(nil, i, &projected)
	}

	return models.PCAResult{
		ExplainedVariance:  explained,
		CumulativeVariance: cumulative,
		Loadings:           loadings,
		Scores:             scores,
	}, nil
}

// clusterAnalysis sweeps k for the elbow curve, then fits the final
// partition with the fixed configured cluster count. The sweep fans out over
// a worker pool; every fit uses the configured seed so results stay
// deterministic.
func (a *AdvancedAnalyzer) clusterAnalysis() (models.ClusteringResult, error) {
	cols := Standardize(a.features.Columns())
	rows := rowsFromColumns(cols)
	if len(rows) == 0 {
		return models.ClusteringResult{}, fmt.Errorf("advanced: clustering needs at least one row")
	}

	maxK := a.cfg.MaxElbowClusters
	if maxK > len(rows) {
		maxK = len(rows)
	}

	inertias := make([]float64, maxK)
	pool := utils.NewWorkerPool(4, 0)
	for k := 1; k <= maxK; k++ {
		k := k
		pool.Submit(func() {
			_, _, inertia := KMeans(rows, k, a.cfg.RandomSeed)
			inertias[k-1] = inertia
		})
	}
	pool.Wait()

	// The elbow curve is reported, but the final k stays fixed; it is not
	// derived from the curve.
	finalK := a.cfg.ClusterCount
	assignments, centers, _ := KMeans(rows, finalK, a.cfg.RandomSeed)

	return models.ClusteringResult{
		K:           finalK,
		Assignments: assignments,
		Centers:     centers,
		Inertias:    inertias,
	}, nil
}

func (a *AdvancedAnalyzer) createPlots(r *models.AdvancedReport) error {
	heatmaps := []struct {
		m     [][]float64
		title string
		name  string
	}{
		{r.Pearson, "Pearson Correlation", "pearson_correlation"},
		{r.Spearman, "Spearman Correlation", "spearman_correlation"},
	}
	for _, h := range heatmaps {
		p, err := correlationHeatmap(models.FeatureColumns, h.m, h.title)
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, h.name, categoryAdvanced); err != nil {
			return err
		}
	}

	if len(r.Bootstrap.Means) > 0 {
		p, err := histogramChart(r.Bootstrap.Means, 16,
			"Bootstrap Distribution of Mean Recommendation Score", "Mean",
			r.Bootstrap.OriginalMean, r.Bootstrap.CILower, r.Bootstrap.CIUpper)
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "bootstrap_recommendation_score", categoryAdvanced); err != nil {
			return err
		}
	}

	if len(r.PCA.CumulativeVariance) > 0 {
		xs := make([]float64, len(r.PCA.CumulativeVariance))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
		p, err := lineChart(xs, r.PCA.CumulativeVariance, "PCA Scree Plot",
			"Number of Components", "Cumulative Explained Variance")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "pca_scree_plot", categoryAdvanced); err != nil {
			return err
		}
	}

	if len(r.Clustering.Inertias) > 0 {
		xs := make([]float64, len(r.Clustering.Inertias))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
		p, err := lineChart(xs, r.Clustering.Inertias, "Elbow Method for Optimal k",
			"Number of Clusters (k)", "Inertia")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "kmeans_elbow", categoryAdvanced); err != nil {
			return err
		}
	}

	return nil
}

func (a *AdvancedAnalyzer) printSummary(r *models.AdvancedReport) {
	printHeader("ADVANCED ANALYSIS")

	printSection("Key Correlations (Pearson)")
	for i := 0; i < len(models.FeatureColumns); i++ {
		for j := i + 1; j < len(models.FeatureColumns); j++ {
			fmt.Printf("  %s vs %s: %.3f\n",
				models.FeatureColumns[i], models.FeatureColumns[j], r.Pearson[i][j])
		}
	}

	printSection("Outliers (1.5*IQR)")
	for _, col := range models.FeatureColumns {
		o := r.Outliers[col]
		fmt.Printf("  %-24s bounds [%.1f, %.1f], flagged %d\n",
			col, o.LowerBound, o.UpperBound, len(o.Indices))
	}

	printSection("Effect Sizes")
	for _, key := range []string{"income_familiarity", "age_recommendation"} {
		es := r.EffectSizes[key]
		fmt.Printf("  %-24s r = %.3f, effect = %.3f, p = %.3f\n",
			key, es.Correlation, es.EffectSize, es.PValue)
	}

	printSection("Bootstrap Analysis")
	fmt.Printf("  Mean Recommendation Score: %.2f\n", r.Bootstrap.OriginalMean)
	fmt.Printf("  95%% CI: [%.2f, %.2f]\n", r.Bootstrap.CILower, r.Bootstrap.CIUpper)

	printSection("PCA")
	for i, v := range r.PCA.ExplainedVariance {
		fmt.Printf("  PC%d: %.3f explained, %.3f cumulative\n",
			i+1, v, r.PCA.CumulativeVariance[i])
	}

	printSection("Clustering")
	fmt.Printf("  Final k: %d, respondents clustered: %d\n",
		r.Clustering.K, len(r.Clustering.Assignments))

	printFooter()
}
