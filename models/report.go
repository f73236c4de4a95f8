package models

import (
	"math"
	"time"
)

// DistEntry is one category of a frequency breakdown.
type DistEntry struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution is an ordered frequency breakdown over one categorical field.
type Distribution []DistEntry

// Total returns the summed counts across all categories.
func (d Distribution) Total() int {
	total := 0
	for _, e := range d {
		total += e.Count
	}
	return total
}

// Empty reports whether the distribution has no categories.
func (d Distribution) Empty() bool { return len(d) == 0 }

// Head returns at most the first n entries.
func (d Distribution) Head(n int) Distribution {
	if len(d) <= n {
		return d
	}
	return d[:n]
}

// CrossTab is a two-dimensional count matrix over a pair of categorical fields.
type CrossTab struct {
	RowField string   `json:"row_field"`
	ColField string   `json:"col_field"`
	Rows     []string `json:"rows"`
	Cols     []string `json:"cols"`
	Counts   [][]int  `json:"counts"`
}

// FeatureRow holds one respondent's derived numeric features, as stored in
// and fetched back from PostgreSQL.
type FeatureRow struct {
	ID             int64
	Age            float64
	Income         float64
	Familiarity    float64
	Recommendation float64
	CreatedAt      time.Time
}

// FeatureSet holds the four derived numeric feature columns, aligned by row.
type FeatureSet struct {
	Age            []float64 `json:"age_numeric"`
	Income         []float64 `json:"income_numeric"`
	Familiarity    []float64 `json:"isho_familiarity_score"`
	Recommendation []float64 `json:"recommendation_score"`
}

// Len returns the number of rows in the feature set.
func (f *FeatureSet) Len() int { return len(f.Age) }

// Columns returns the feature columns in the FeatureColumns order.
func (f *FeatureSet) Columns() [][]float64 {
	return [][]float64{f.Age, f.Income, f.Familiarity, f.Recommendation}
}

// Rows converts the column-oriented set into per-respondent rows.
func (f *FeatureSet) Rows() []*FeatureRow {
	rows := make([]*FeatureRow, f.Len())
	for i := range rows {
		rows[i] = &FeatureRow{
			Age:            f.Age[i],
			Income:         f.Income[i],
			Familiarity:    f.Familiarity[i],
			Recommendation: f.Recommendation[i],
		}
	}
	return rows
}

// FeatureSetFromRows rebuilds a column-oriented feature set from stored rows.
func FeatureSetFromRows(rows []*FeatureRow) *FeatureSet {
	f := &FeatureSet{
		Age:            make([]float64, len(rows)),
		Income:         make([]float64, len(rows)),
		Familiarity:    make([]float64, len(rows)),
		Recommendation: make([]float64, len(rows)),
	}
	for i, r := range rows {
		f.Age[i] = r.Age
		f.Income[i] = r.Income
		f.Familiarity[i] = r.Familiarity
		f.Recommendation[i] = r.Recommendation
	}
	return f
}

// RunMeta identifies one pipeline run inside every saved result bundle.
type RunMeta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Respondents int       `json:"respondents"`
}

// DemographicReport holds frequency distributions and cross-tabulations over
// the demographic fields.
type DemographicReport struct {
	Meta          RunMeta                 `json:"meta"`
	Distributions map[string]Distribution `json:"distributions"`
	CrossTabs     map[string]*CrossTab    `json:"cross_tabs"`
}

// BrandReport holds awareness, perception and non-purchase breakdowns for the
// Isho brand questions.
type BrandReport struct {
	Meta               RunMeta                 `json:"meta"`
	Awareness          map[string]Distribution `json:"awareness"`
	Perceptions        map[string]Distribution `json:"perceptions"`
	NonPurchaseReasons Distribution            `json:"non_purchase_reasons"`
}

// PreferenceReport holds furniture-type, purchase-factor, room-priority and
// shopping-behavior breakdowns.
type PreferenceReport struct {
	Meta           RunMeta                 `json:"meta"`
	Types          Distribution            `json:"types"`
	Factors        Distribution            `json:"factors"`
	RoomPriorities Distribution            `json:"room_priorities"`
	Shopping       map[string]Distribution `json:"shopping"`
}

// Correlation pairs a correlation coefficient with its p-value.
type Correlation struct {
	R      float64 `json:"correlation"`
	PValue float64 `json:"p_value"`
}

// NormalityTest holds a D'Agostino-Pearson K-squared test result.
type NormalityTest struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// DistributionStats describes the shape of one numeric column.
type DistributionStats struct {
	Mean      float64       `json:"mean"`
	Median    float64       `json:"median"`
	Std       float64       `json:"std"`
	Skew      float64       `json:"skew"`
	Normality NormalityTest `json:"normality_test"`
}

// ScoreStats describes a 1-5 scale column alongside its value distribution.
type ScoreStats struct {
	Mean         float64      `json:"mean"`
	Median       float64      `json:"median"`
	Std          float64      `json:"std"`
	Distribution Distribution `json:"distribution"`
}

// StatisticalReport holds the correlation matrix, distribution statistics and
// brand metric analyses.
type StatisticalReport struct {
	Meta                 RunMeta           `json:"meta"`
	FeatureNames         []string          `json:"feature_names"`
	CorrelationMatrix    [][]float64       `json:"correlation_matrix"`
	PValues              [][]float64       `json:"p_values"`
	AgeStats             DistributionStats `json:"age_statistics"`
	IncomeStats          DistributionStats `json:"income_statistics"`
	FamiliarityStats     ScoreStats        `json:"familiarity_statistics"`
	RecommendationStats  ScoreStats        `json:"recommendation_statistics"`
	FamiliarityRecommend Correlation       `json:"familiarity_recommendation_correlation"`
}

// OutlierResult holds the IQR fences and flagged values for one column.
type OutlierResult struct {
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
}

// EffectSize holds the correlation-based effect size for one relationship.
type EffectSize struct {
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	EffectSize  float64 `json:"effect_size"`
}

// BootstrapResult holds the empirical confidence interval for a resampled mean.
type BootstrapResult struct {
	OriginalMean float64   `json:"original_mean"`
	CILower      float64   `json:"ci_lower"`
	CIUpper      float64   `json:"ci_upper"`
	Means        []float64 `json:"bootstrap_means"`
}

// PCAResult holds explained variance and component loadings.
type PCAResult struct {
	ExplainedVariance  []float64   `json:"explained_variance"`
	CumulativeVariance []float64   `json:"cumulative_variance"`
	Loadings           [][]float64 `json:"loadings"`
	Scores             [][]float64 `json:"scores"`
}

// ClusteringResult holds the elbow curve and the final k-means partition.
type ClusteringResult struct {
	K           int         `json:"k"`
	Assignments []int       `json:"clusters"`
	Centers     [][]float64 `json:"cluster_centers"`
	Inertias    []float64   `json:"inertias"`
}

// AdvancedReport bundles outlier, correlation, effect-size, bootstrap, PCA
// and clustering results.
type AdvancedReport struct {
	Meta        RunMeta                  `json:"meta"`
	Outliers    map[string]OutlierResult `json:"outliers"`
	Pearson     [][]float64              `json:"pearson"`
	Spearman    [][]float64              `json:"spearman"`
	EffectSizes map[string]EffectSize    `json:"effect_sizes"`
	Bootstrap   BootstrapResult          `json:"bootstrap"`
	PCA         PCAResult                `json:"pca"`
	Clustering  ClusteringResult         `json:"clustering"`
}

// Round1 rounds to one decimal place, the reporting precision used by every
// percentage breakdown.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}
