package services

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

// testSurveyFrame builds a small raw survey table covering every column the
// cleaning pipeline requires.
func testSurveyFrame() dataframe.DataFrame {
	records := [][]string{
		{
			"Timestamp",
			"What is your age group?",
			"What is your Gender?",
			"What is your monthly income range?",
			"Have you ever bought furniture?",
			"What type of furniture do you prefer?",
			"Which room do you prioritise when buying furniture?",
			"Why do you usually buy furniture?",
			"How familiar are you with the ISHO brand? (Rate on a scale of 1 to 5)",
			"Would you recommend ISHO to others? (Rank on a scale of 1 to 5)",
		},
		{
			"2024/01/15 10:30:00", "18-24", "Female", "Below BDT 25,000", "Yes",
			"Modern, Minimalist", "Living/ Drawing Room, Bedroom", "For home decoration",
			"3", "4",
		},
		{
			"2024/01/15 11:05:00", "25-34", "Male", "BDT 50,001-100,000", "YES",
			"Traditional", "Kitchen", "Style & comfort",
			"abc", "5",
		},
		{
			"2024/01/16 09:12:00", "Prefer not to say", "", "BDT 25,001-50,000", "No",
			"Eclectic", "Guest Room", "Personal Preference",
			"2", "2",
		},
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"What is your age group?", models.ColAgeGroup},
		{"What is your monthly income range?", models.ColIncomeRange},
		{"Have you ever bought furniture?", models.ColBoughtFurniture},
		{
			"How familiar are you with the ISHO brand? (Rate on a scale of 1 to 5)",
			models.ColIshoFamiliarity,
		},
		{"Timestamp", "timestamp"},
		{"  Padded  Header ", "padded_header"},
	}

	for _, tt := range tests {
		got := NormalizeColumnName(tt.raw)
		if got != tt.want {
			t.Errorf("NormalizeColumnName(%q) = %q; want %q", tt.raw, got, tt.want)
		}
		// normalizing twice must not change the key again
		if again := NormalizeColumnName(got); again != got {
			t.Errorf("NormalizeColumnName(%q) not idempotent: %q", got, again)
		}
	}
}

func TestCleanerFiltersNonBuyers(t *testing.T) {
	c := NewCleaner(newTestLogger())
	df, err := c.Clean(testSurveyFrame())
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	if df.Nrow() != 2 {
		t.Fatalf("expected 2 buyers after filtering, got %d", df.Nrow())
	}
	for _, v := range df.Col(models.ColBoughtFurniture).Records() {
		if v != "Yes" && v != "YES" {
			t.Errorf("non-buyer row survived filtering: %q", v)
		}
	}
}

func TestCleanerNumericFeatures(t *testing.T) {
	c := NewCleaner(newTestLogger())
	df, err := c.Clean(testSurveyFrame())
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	age := df.Col(models.ColAgeNumeric).Float()
	if age[0] != 21 || age[1] != 29.5 {
		t.Errorf("age midpoints = %v; want [21 29.5]", age)
	}

	income := df.Col(models.ColIncomeNumeric).Float()
	if income[0] != 12500 || income[1] != 75000 {
		t.Errorf("income midpoints = %v; want [12500 75000]", income)
	}

	// "abc" is not a scale answer; the fill step turns it into 0
	familiarity := df.Col(models.ColFamiliarityScore).Float()
	if familiarity[0] != 3 || familiarity[1] != 0 {
		t.Errorf("familiarity scores = %v; want [3 0]", familiarity)
	}
}

func TestCleanerIndicatorColumns(t *testing.T) {
	c := NewCleaner(newTestLogger())
	df, err := c.Clean(testSurveyFrame())
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	tests := []struct {
		column string
		want   []string
	}{
		{"furniture_type_modern", []string{"1", "0"}},
		{"furniture_type_minimalist", []string{"1", "0"}},
		{"furniture_type_traditional", []string{"0", "1"}},
		{"priority_room_living__drawing_room", []string{"1", "0"}},
		{"priority_room_bedroom", []string{"1", "0"}},
		{"priority_room_kitchen", []string{"0", "1"}},
		{"purchase_reason_for_home_decoration", []string{"1", "0"}},
	}

	for _, tt := range tests {
		got := df.Col(tt.column).Records()
		if len(got) != len(tt.want) {
			t.Fatalf("%s: got %d rows, want %d", tt.column, len(got), len(tt.want))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s[%d] = %q; want %q", tt.column, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCleanerFillsMissingText(t *testing.T) {
	c := NewCleaner(newTestLogger())
	df, err := c.Clean(testSurveyFrame())
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	for _, name := range df.Names() {
		for i, v := range df.Col(name).Records() {
			if v == "" {
				t.Errorf("column %s row %d left empty after fill", name, i)
			}
		}
	}
}

func TestCleanerRewritesTimestamps(t *testing.T) {
	c := NewCleaner(newTestLogger())
	df, err := c.Clean(testSurveyFrame())
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}

	want := "2024-01-15T10:30:00Z"
	got := df.Col(models.ColTimestamp).Records()[0]
	if got != want {
		t.Errorf("timestamp = %q; want %q", got, want)
	}
}

func TestCleanerMissingColumnIsFatal(t *testing.T) {
	records := [][]string{
		{"Timestamp", "What is your Gender?"},
		{"2024/01/15 10:30:00", "Female"},
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)

	c := NewCleaner(newTestLogger())
	if _, err := c.Clean(df); err == nil {
		t.Fatal("expected error for missing survey columns, got nil")
	}
}
