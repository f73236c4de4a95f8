package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"furniture-survey-analysis/models"
)

// countPair accumulates one label's count in first-seen order.
type countPair struct {
	label string
	count int
}

func tally(values []string) []countPair {
	index := make(map[string]int)
	var pairs []countPair
	for _, v := range values {
		if i, ok := index[v]; ok {
			pairs[i].count++
			continue
		}
		index[v] = len(pairs)
		pairs = append(pairs, countPair{label: v, count: 1})
	}
	return pairs
}

func toDistribution(pairs []countPair, total int) models.Distribution {
	dist := make(models.Distribution, 0, len(pairs))
	for _, p := range pairs {
		pct := 0.0
		if total > 0 {
			pct = models.Round1(float64(p.count) / float64(total) * 100)
		}
		dist = append(dist, models.DistEntry{Label: p.label, Count: p.count, Percentage: pct})
	}
	return dist
}

// ValueCounts computes the frequency distribution of one categorical column,
// sorted by descending count. Percentages are relative to total, which may
// exceed the column's own row count when the column comes from a subset.
func ValueCounts(df dataframe.DataFrame, col string, total int) (models.Distribution, error) {
	if err := requireColumns(df, col); err != nil {
		return nil, err
	}
	pairs := tally(df.Col(col).Records())
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].count > pairs[j].count })
	return toDistribution(pairs, total), nil
}

// ValueCountsByLabel is ValueCounts sorted by ascending label instead of
// descending count, the ordering used for 1-5 scale distributions.
func ValueCountsByLabel(df dataframe.DataFrame, col string, total int) (models.Distribution, error) {
	if err := requireColumns(df, col); err != nil {
		return nil, err
	}
	pairs := tally(df.Col(col).Records())
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].label < pairs[j].label })
	return toDistribution(pairs, total), nil
}

// SplitCounts expands a delimiter-separated multi-select column into
// per-token counts, sorted by descending count. Tokens are trimmed; empty
// tokens and unanswered cells contribute nothing.
func SplitCounts(df dataframe.DataFrame, col, sep string, total int) (models.Distribution, error) {
	if err := requireColumns(df, col); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var pairs []countPair
	for _, rec := range df.Col(col).Records() {
		for _, token := range strings.Split(rec, sep) {
			token = strings.TrimSpace(token)
			if token == "" || token == "Not Specified" {
				continue
			}
			if i, ok := index[token]; ok {
				pairs[i].count++
				continue
			}
			index[token] = len(pairs)
			pairs = append(pairs, countPair{label: token, count: 1})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].count > pairs[j].count })
	return toDistribution(pairs, total), nil
}

// CrossTab builds a two-dimensional count matrix over a pair of categorical
// columns, with row and column labels sorted ascending.
func CrossTab(df dataframe.DataFrame, rowCol, colCol string) (*models.CrossTab, error) {
	if err := requireColumns(df, rowCol, colCol); err != nil {
		return nil, err
	}

	rowRecords := df.Col(rowCol).Records()
	colRecords := df.Col(colCol).Records()

	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for i := range rowRecords {
		rowSet[rowRecords[i]] = struct{}{}
		colSet[colRecords[i]] = struct{}{}
	}

	rows := sortedKeys(rowSet)
	cols := sortedKeys(colSet)
	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}
	for i := range rowRecords {
		counts[rowIdx[rowRecords[i]]][colIdx[colRecords[i]]]++
	}

	return &models.CrossTab{
		RowField: rowCol,
		ColField: colCol,
		Rows:     rows,
		Cols:     cols,
		Counts:   counts,
	}, nil
}

// SubsetEq returns the rows where col equals value exactly.
func SubsetEq(df dataframe.DataFrame, col, value string) (dataframe.DataFrame, error) {
	if err := requireColumns(df, col); err != nil {
		return df, err
	}
	sub := df.Filter(dataframe.F{Colname: col, Comparator: series.Eq, Comparando: value})
	if sub.Err != nil {
		return sub, fmt.Errorf("services: subset %s == %q: %w", col, value, sub.Err)
	}
	return sub, nil
}

// ExtractFeatures pulls the four derived numeric columns out of the cleaned
// table.
func ExtractFeatures(df dataframe.DataFrame) (*models.FeatureSet, error) {
	if err := requireColumns(df, models.FeatureColumns...); err != nil {
		return nil, err
	}
	return &models.FeatureSet{
		Age:            df.Col(models.ColAgeNumeric).Float(),
		Income:         df.Col(models.ColIncomeNumeric).Float(),
		Familiarity:    df.Col(models.ColFamiliarityScore).Float(),
		Recommendation: df.Col(models.ColRecommendationScore).Float(),
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
