package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/utils"
)

// timestampLayouts covers the formats survey exports have shipped with.
var timestampLayouts = []string{
	time.RFC3339,
	"2006/01/02 3:04:05 PM MST",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
}

// Cleaner transforms the raw survey table into the cleaned, feature-bearing
// table every analyzer consumes. Steps run in a fixed order; a missing
// expected column is fatal because the schema is assumed fixed.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean runs the full cleaning pipeline over the raw table.
func (c *Cleaner) Clean(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	c.logger.Info("[cleaner] Starting data cleaning: %d rows, %d columns", df.Nrow(), df.Ncol())

	df = c.normalizeColumnNames(df)

	df, err := c.parseTimestamps(df)
	if err != nil {
		return df, err
	}

	df, err = c.expandMultiChoiceColumns(df)
	if err != nil {
		return df, err
	}

	df, err = c.createNumericFeatures(df)
	if err != nil {
		return df, err
	}

	df = c.scrubTextColumns(df)
	df = c.fillMissingValues(df)

	df, err = c.filterValidResponses(df)
	if err != nil {
		return df, err
	}

	c.logger.Info("[cleaner] Cleaning complete: %d valid responses, %d columns", df.Nrow(), df.Ncol())
	return df, nil
}

// NormalizeColumnName maps a raw CSV header (the full question text) to its
// normalized column key. Idempotent: normalizing a normalized key is a no-op.
func NormalizeColumnName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "?", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "[", "")
	s = strings.ReplaceAll(s, "]", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "  ", " ")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func (c *Cleaner) normalizeColumnNames(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		normalized := NormalizeColumnName(name)
		if normalized == name {
			continue
		}
		c.logger.Info("[cleaner] Renamed column %q -> %q", name, normalized)
		df = df.Rename(normalized, name)
	}
	return df
}

// parseTimestamps validates the timestamp column and rewrites it as RFC3339.
// An unparseable non-empty value is fatal.
func (c *Cleaner) parseTimestamps(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, models.ColTimestamp); err != nil {
		return df, err
	}

	records := df.Col(models.ColTimestamp).Records()
	parsed := make([]string, len(records))
	for i, raw := range records {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			parsed[i] = ""
			continue
		}
		ts, err := parseTimestamp(raw)
		if err != nil {
			return df, fmt.Errorf("cleaner: row %d: %w", i, err)
		}
		parsed[i] = ts.Format(time.RFC3339)
	}

	return df.Mutate(series.New(parsed, series.String, models.ColTimestamp)), nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// expandMultiChoiceColumns emits one 0/1 indicator column per known choice
// label of each multiple-choice question. A choice counts as present when its
// label appears case-insensitively anywhere in the response text.
func (c *Cleaner) expandMultiChoiceColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, q := range models.MultiChoiceQuestions {
		if err := requireColumns(df, q.Column); err != nil {
			return df, err
		}
		records := df.Col(q.Column).Records()
		for _, choice := range q.Choices {
			indicators := make([]int, len(records))
			for i, resp := range records {
				if containsFold(resp, choice) {
					indicators[i] = 1
				}
			}
			df = df.Mutate(series.New(indicators, series.Int, q.IndicatorColumn(choice)))
		}
		c.logger.Info("[cleaner] Expanded %q into %d indicator columns", q.Column, len(q.Choices))
	}
	return df, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// createNumericFeatures derives the four numeric feature columns. Unmapped
// bracket labels and non-numeric scale answers become missing values here;
// the fill step decides what missing means.
func (c *Cleaner) createNumericFeatures(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	required := []string{
		models.ColAgeGroup,
		models.ColIncomeRange,
		models.ColIshoFamiliarity,
		models.ColIshoRecommend,
	}
	if err := requireColumns(df, required...); err != nil {
		return df, err
	}

	df = df.Mutate(series.New(
		mapBrackets(df.Col(models.ColAgeGroup).Records(), models.AgeBrackets),
		series.Float, models.ColAgeNumeric))
	df = df.Mutate(series.New(
		mapBrackets(df.Col(models.ColIncomeRange).Records(), models.IncomeBrackets),
		series.Float, models.ColIncomeNumeric))
	df = df.Mutate(series.New(
		coerceScale(df.Col(models.ColIshoFamiliarity).Records()),
		series.Float, models.ColFamiliarityScore))
	df = df.Mutate(series.New(
		coerceScale(df.Col(models.ColIshoRecommend).Records()),
		series.Float, models.ColRecommendationScore))

	return df, nil
}

// mapBrackets converts bracket labels to midpoints. Unknown labels yield NaN,
// never a default value.
func mapBrackets(records []string, brackets []models.BracketMidpoint) []float64 {
	vals := make([]float64, len(records))
	for i, label := range records {
		if mid, ok := models.LookupBracket(brackets, strings.TrimSpace(label)); ok {
			vals[i] = mid
		} else {
			vals[i] = nan()
		}
	}
	return vals
}

// coerceScale parses a 1-5 scale answer; anything non-numeric becomes NaN.
func coerceScale(records []string) []float64 {
	vals := make([]float64, len(records))
	for i, raw := range records {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			vals[i] = nan()
			continue
		}
		vals[i] = f
	}
	return vals
}

// scrubTextColumns strips non-ASCII characters and trims whitespace on every
// text column.
func (c *Cleaner) scrubTextColumns(df dataframe.DataFrame) dataframe.DataFrame {
	types := df.Types()
	for i, name := range df.Names() {
		if types[i] != series.String {
			continue
		}
		records := df.Col(name).Records()
		scrubbed := make([]string, len(records))
		for j, v := range records {
			scrubbed[j] = strings.TrimSpace(stripNonASCII(v))
		}
		df = df.Mutate(series.New(scrubbed, series.String, name))
	}
	return df
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fillMissingValues applies the general cleaning policy: numeric missing
// values become 0, text missing values become "Not Specified". The advanced
// analyzer applies its own mean-imputation instead; the two policies are
// deliberately distinct.
func (c *Cleaner) fillMissingValues(df dataframe.DataFrame) dataframe.DataFrame {
	types := df.Types()
	for i, name := range df.Names() {
		switch types[i] {
		case series.Float:
			vals := df.Col(name).Float()
			changed := false
			for j, v := range vals {
				if isNaN(v) {
					vals[j] = 0
					changed = true
				}
			}
			if changed {
				df = df.Mutate(series.New(vals, series.Float, name))
			}
		case series.String:
			records := df.Col(name).Records()
			changed := false
			for j, v := range records {
				if v == "" || v == "NaN" {
					records[j] = "Not Specified"
					changed = true
				}
			}
			if changed {
				df = df.Mutate(series.New(records, series.String, name))
			}
		}
	}
	return df
}

// filterValidResponses keeps only respondents who have actually bought
// furniture, matched case-insensitively.
func (c *Cleaner) filterValidResponses(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, models.ColBoughtFurniture); err != nil {
		return df, err
	}

	before := df.Nrow()
	df = df.Filter(dataframe.F{
		Colname:    models.ColBoughtFurniture,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return strings.EqualFold(strings.TrimSpace(el.String()), "yes")
		},
	})
	if df.Err != nil {
		return df, fmt.Errorf("cleaner: filter valid responses: %w", df.Err)
	}

	c.logger.Info("[cleaner] Filtered %d -> %d genuine purchasers", before, df.Nrow())
	return df, nil
}

// requireColumns returns a fatal error naming the first missing column.
func requireColumns(df dataframe.DataFrame, names ...string) error {
	existing := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		existing[n] = struct{}{}
	}
	for _, n := range names {
		if _, ok := existing[n]; !ok {
			return fmt.Errorf("cleaner: column %q not found", n)
		}
	}
	return nil
}
