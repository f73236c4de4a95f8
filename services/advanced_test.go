package services

import (
	"math"
	"testing"

	"furniture-survey-analysis/config"
	"furniture-survey-analysis/models"
	"furniture-survey-analysis/utils"
)

func testFeatureSet() *models.FeatureSet {
	return &models.FeatureSet{
		Age:            []float64{21, 21, 29.5, 29.5, 39.5, 39.5, 55, 21, 29.5, 55},
		Income:         []float64{12500, 37500, 37500, 75000, 75000, 150000, 250000, 12500, 37500, 150000},
		Familiarity:    []float64{1, 2, 3, 3, 4, 4, 5, 2, 3, 5},
		Recommendation: []float64{2, 3, 3, 4, 4, 5, 5, 3, 3, 4},
	}
}

func testAdvancedAnalyzer(iterations int) *AdvancedAnalyzer {
	cfg := &config.Config{
		RandomSeed:          42,
		BootstrapIterations: iterations,
		ClusterCount:        3,
		MaxElbowClusters:    4,
	}
	return NewAdvancedAnalyzer(testFeatureSet(), cfg, nil, utils.NewLogger())
}

func TestDetectOutliersBounds(t *testing.T) {
	a := testAdvancedAnalyzer(10)
	outliers := a.detectOutliers()

	if len(outliers) != len(models.FeatureColumns) {
		t.Fatalf("got %d outlier results; want %d", len(outliers), len(models.FeatureColumns))
	}
	for col, o := range outliers {
		if o.LowerBound > o.UpperBound {
			t.Errorf("%s: lower bound %.2f above upper bound %.2f", col, o.LowerBound, o.UpperBound)
		}
		if len(o.Indices) != len(o.Values) {
			t.Errorf("%s: %d indices but %d values", col, len(o.Indices), len(o.Values))
		}
		for _, v := range o.Values {
			if v >= o.LowerBound && v <= o.UpperBound {
				t.Errorf("%s: flagged value %.2f inside fences [%.2f, %.2f]",
					col, v, o.LowerBound, o.UpperBound)
			}
		}
	}
}

func TestEffectSizesAreAbsolute(t *testing.T) {
	a := testAdvancedAnalyzer(10)
	sizes := a.effectSizes()

	for key, es := range sizes {
		if es.EffectSize < 0 || es.EffectSize > 1 {
			t.Errorf("%s: effect size %.4f outside [0, 1]", key, es.EffectSize)
		}
		if !almostEqual(es.EffectSize, math.Abs(es.Correlation), 1e-9) {
			t.Errorf("%s: effect size %.4f != |r| %.4f", key, es.EffectSize, math.Abs(es.Correlation))
		}
	}
}

func TestBootstrapConstantColumn(t *testing.T) {
	a := testAdvancedAnalyzer(100)
	for i := range a.features.Recommendation {
		a.features.Recommendation[i] = 4
	}

	result := a.bootstrapRecommendation()
	if result.OriginalMean != 4 {
		t.Errorf("original mean = %.4f; want 4", result.OriginalMean)
	}
	// resampling a constant can only ever produce that constant
	if result.CILower != 4 || result.CIUpper != 4 {
		t.Errorf("CI = [%.4f, %.4f]; want [4, 4]", result.CILower, result.CIUpper)
	}
}

func TestBootstrapInterval(t *testing.T) {
	a := testAdvancedAnalyzer(500)
	result := a.bootstrapRecommendation()

	if len(result.Means) != 500 {
		t.Fatalf("got %d bootstrap means; want 500", len(result.Means))
	}
	if result.CILower > result.CIUpper {
		t.Errorf("CI bounds inverted: [%.4f, %.4f]", result.CILower, result.CIUpper)
	}
	if result.OriginalMean < result.CILower-1 || result.OriginalMean > result.CIUpper+1 {
		t.Errorf("original mean %.4f far outside CI [%.4f, %.4f]",
			result.OriginalMean, result.CILower, result.CIUpper)
	}

	// fixed seed, fixed interval
	again := testAdvancedAnalyzer(500).bootstrapRecommendation()
	if again.CILower != result.CILower || again.CIUpper != result.CIUpper {
		t.Error("bootstrap not deterministic for a fixed seed")
	}
}

func TestRunPCA(t *testing.T) {
	a := testAdvancedAnalyzer(10)
	pca, err := a.runPCA()
	if err != nil {
		t.Fatalf("runPCA returned error: %v", err)
	}

	n := len(models.FeatureColumns)
	if len(pca.ExplainedVariance) != n || len(pca.CumulativeVariance) != n {
		t.Fatalf("got %d/%d variance entries; want %d",
			len(pca.ExplainedVariance), len(pca.CumulativeVariance), n)
	}

	prev := 0.0
	for i, c := range pca.CumulativeVariance {
		if c < prev {
			t.Errorf("cumulative variance decreases at component %d: %.4f -> %.4f", i+1, prev, c)
		}
		prev = c
	}
	if !almostEqual(pca.CumulativeVariance[n-1], 1, 1e-6) {
		t.Errorf("cumulative variance ends at %.6f; want 1", pca.CumulativeVariance[n-1])
	}

	if len(pca.Loadings) != n || len(pca.Loadings[0]) != n {
		t.Errorf("loadings are %dx%d; want %dx%d", len(pca.Loadings), len(pca.Loadings[0]), n, n)
	}
	if len(pca.Scores) != a.features.Len() {
		t.Errorf("got %d score rows; want %d", len(pca.Scores), a.features.Len())
	}
}

func TestClusterAnalysis(t *testing.T) {
	a := testAdvancedAnalyzer(10)
	result, err := a.clusterAnalysis()
	if err != nil {
		t.Fatalf("clusterAnalysis returned error: %v", err)
	}

	if result.K != 3 {
		t.Errorf("final k = %d; want 3", result.K)
	}
	if len(result.Centers) != 3 {
		t.Errorf("got %d centers; want 3", len(result.Centers))
	}
	if len(result.Assignments) != a.features.Len() {
		t.Errorf("got %d assignments; want %d", len(result.Assignments), a.features.Len())
	}
	for i, c := range result.Assignments {
		if c < 0 || c >= result.K {
			t.Errorf("row %d assigned to cluster %d; want [0, %d)", i, c, result.K)
		}
	}

	if len(result.Inertias) != 4 {
		t.Fatalf("got %d elbow points; want 4", len(result.Inertias))
	}
	if result.Inertias[len(result.Inertias)-1] > result.Inertias[0] {
		t.Errorf("inertia grew from k=1 (%.4f) to k=%d (%.4f)",
			result.Inertias[0], len(result.Inertias), result.Inertias[len(result.Inertias)-1])
	}
}
