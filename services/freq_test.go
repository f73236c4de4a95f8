package services

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func loadFrame(records [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

func TestValueCounts(t *testing.T) {
	df := loadFrame([][]string{
		{"gender"},
		{"Female"}, {"Male"}, {"Female"}, {"Female"}, {"Male"},
	})

	dist, err := ValueCounts(df, "gender", df.Nrow())
	if err != nil {
		t.Fatalf("ValueCounts returned error: %v", err)
	}

	if len(dist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dist))
	}
	if dist[0].Label != "Female" || dist[0].Count != 3 {
		t.Errorf("top entry = %+v; want Female x3", dist[0])
	}
	if dist[0].Percentage != 60.0 || dist[1].Percentage != 40.0 {
		t.Errorf("percentages = %.1f, %.1f; want 60.0, 40.0", dist[0].Percentage, dist[1].Percentage)
	}

	sum := 0.0
	for _, e := range dist {
		sum += e.Percentage
	}
	if math.Abs(sum-100) > 0.2 {
		t.Errorf("percentages sum to %.1f; want ~100", sum)
	}
}

func TestValueCountsByLabel(t *testing.T) {
	df := loadFrame([][]string{
		{"score"},
		{"3"}, {"1"}, {"5"}, {"3"}, {"1"},
	})

	dist, err := ValueCountsByLabel(df, "score", df.Nrow())
	if err != nil {
		t.Fatalf("ValueCountsByLabel returned error: %v", err)
	}

	want := []string{"1", "3", "5"}
	for i, e := range dist {
		if e.Label != want[i] {
			t.Errorf("entry %d label = %q; want %q", i, e.Label, want[i])
		}
	}
}

func TestSplitCounts(t *testing.T) {
	df := loadFrame([][]string{
		{"sources"},
		{"Online reviews, Friends"},
		{"Friends"},
		{"Not Specified"},
		{"Online reviews , Showroom visits"},
	})

	dist, err := SplitCounts(df, "sources", ",", df.Nrow())
	if err != nil {
		t.Fatalf("SplitCounts returned error: %v", err)
	}

	counts := map[string]int{}
	for _, e := range dist {
		counts[e.Label] = e.Count
	}
	if counts["Online reviews"] != 2 || counts["Friends"] != 2 || counts["Showroom visits"] != 1 {
		t.Errorf("token counts = %v", counts)
	}
	if _, ok := counts["Not Specified"]; ok {
		t.Error("unanswered cells must not contribute tokens")
	}
	if dist[len(dist)-1].Count > dist[0].Count {
		t.Error("entries not sorted by descending count")
	}
}

func TestCrossTab(t *testing.T) {
	df := loadFrame([][]string{
		{"age", "gender"},
		{"18-24", "Female"},
		{"18-24", "Male"},
		{"25-34", "Female"},
		{"18-24", "Female"},
	})

	ct, err := CrossTab(df, "age", "gender")
	if err != nil {
		t.Fatalf("CrossTab returned error: %v", err)
	}

	if len(ct.Rows) != 2 || len(ct.Cols) != 2 {
		t.Fatalf("dimensions = %dx%d; want 2x2", len(ct.Rows), len(ct.Cols))
	}
	// labels sorted ascending: rows [18-24 25-34], cols [Female Male]
	if ct.Counts[0][0] != 2 || ct.Counts[0][1] != 1 || ct.Counts[1][0] != 1 || ct.Counts[1][1] != 0 {
		t.Errorf("counts = %v", ct.Counts)
	}

	total := 0
	for _, row := range ct.Counts {
		for _, c := range row {
			total += c
		}
	}
	if total != df.Nrow() {
		t.Errorf("cell counts sum to %d; want %d", total, df.Nrow())
	}
}

func TestSubsetEq(t *testing.T) {
	df := loadFrame([][]string{
		{"bought"},
		{"Yes"}, {"No"}, {"Yes"},
	})

	sub, err := SubsetEq(df, "bought", "Yes")
	if err != nil {
		t.Fatalf("SubsetEq returned error: %v", err)
	}
	if sub.Nrow() != 2 {
		t.Errorf("subset has %d rows; want 2", sub.Nrow())
	}
}
