package models

import "strings"

// Normalized column keys of the survey table. Raw CSV headers are the full
// question texts; the cleaner normalizes them to these keys.
const (
	ColTimestamp   = "timestamp"
	ColAgeGroup    = "what_is_your_age_group"
	ColGender      = "what_is_your_gender"
	ColOccupation  = "what_is_your_occupation"
	ColIncomeRange = "what_is_your_monthly_income_range"

	ColBoughtFurniture = "have_you_ever_bought_furniture"
	ColFurnitureType   = "what_type_of_furniture_do_you_prefer"
	ColPriorityRoom    = "which_room_do_you_prioritise_when_buying_furniture"
	ColPurchaseReason  = "why_do_you_usually_buy_furniture"
	ColPurchaseFactors = "what_factors_are_most_important_to_you_when_buying_furniture"
	ColMakePreference  = "do_you_prefer_ready-made_or_custom-made_furniture"
	ColShopChannel     = "how_do_you_typically_shop_for_furniture"
	ColInfoSources     = "what_sources_of_information_do_you_rely_on_when_choosing_furniture"
	ColBuyTiming       = "in_which_time_of_the_year_do_you_prefer_buying_new_furniture"

	ColIshoFamiliarity  = "how_familiar_are_you_with_the_isho_brand_rate_on_a_scale_of_1_to_5"
	ColIshoFeedback     = "have_you_heard_any_specific_feedback_or_reviews_about_isho_from_friends_or_family"
	ColIshoBought       = "have_you_ever_bought_any_furniture_from_isho"
	ColIshoAssociations = "when_you_think_of_isho_which_of_the_following_words_or_phrases_come_to_mind"
	ColIshoFactors      = "what_factors_do_you_consider_most_important_when_evaluating_isho_as_a_furniture_brand"
	ColIshoComparison   = "what_is_your_perception_of_isho_compared_to_other_brands"
	ColIshoRecommend    = "would_you_recommend_isho_to_others_rank_on_a_scale_of_1_to_5"
	ColIshoNonPurchase  = "what_is_the_primary_reason_you_didn't_buy_anything_from_isho"
)

// Derived numeric feature columns, added once during cleaning.
const (
	ColAgeNumeric          = "age_numeric"
	ColIncomeNumeric       = "income_numeric"
	ColFamiliarityScore    = "isho_familiarity_score"
	ColRecommendationScore = "recommendation_score"
)

// FeatureColumns lists the derived numeric columns in their canonical order.
var FeatureColumns = []string{
	ColAgeNumeric,
	ColIncomeNumeric,
	ColFamiliarityScore,
	ColRecommendationScore,
}

// BracketMidpoint maps one categorical bracket label to its numeric midpoint.
type BracketMidpoint struct {
	Label    string
	Midpoint float64
}

// AgeBrackets maps age-group labels to numeric midpoints.
var AgeBrackets = []BracketMidpoint{
	{"Under 18", 17},
	{"18-24", 21},
	{"25-34", 29.5},
	{"35-44", 39.5},
	{"45 and above", 55},
}

// IncomeBrackets maps monthly income ranges (BDT) to numeric midpoints.
var IncomeBrackets = []BracketMidpoint{
	{"Below BDT 25,000", 12500},
	{"BDT 25,001-50,000", 37500},
	{"BDT 50,001-100,000", 75000},
	{"BDT 100,001-200,000", 150000},
	{"Above 200,000", 250000},
}

// LookupBracket returns the midpoint for a bracket label. Unknown labels
// report ok=false; callers treat that as a missing value, never a default.
func LookupBracket(brackets []BracketMidpoint, label string) (float64, bool) {
	for _, b := range brackets {
		if b.Label == label {
			return b.Midpoint, true
		}
	}
	return 0, false
}

// MultiChoiceQuestion describes a survey question whose free-text answer may
// mention several of a fixed, ordered set of choice labels.
type MultiChoiceQuestion struct {
	Column  string
	Prefix  string
	Choices []string
}

// IndicatorColumn returns the name of the 0/1 indicator column generated for
// one choice label of the question.
func (q MultiChoiceQuestion) IndicatorColumn(choice string) string {
	name := q.Prefix + "_" + strings.ToLower(choice)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}

// MultiChoiceQuestions lists the questions expanded into indicator columns
// during cleaning.
var MultiChoiceQuestions = []MultiChoiceQuestion{
	{
		Column: ColFurnitureType,
		Prefix: "furniture_type",
		Choices: []string{
			"Modern",
			"Traditional",
			"Minimalist",
			"Multipurpose",
			"Eclectic",
		},
	},
	{
		Column: ColPriorityRoom,
		Prefix: "priority_room",
		Choices: []string{
			"Living/ Drawing Room",
			"Bedroom",
			"Dining Room",
			"Guest Room",
			"Kid's room",
			"Kitchen",
		},
	},
	{
		Column: ColPurchaseReason,
		Prefix: "purchase_reason",
		Choices: []string{
			"For home decoration",
			"For Marriage or Family Changes",
			"When old furniture needs replacement",
			"Moving out and home shifting",
			"Personal Preference",
			"Style & comfort",
		},
	},
}
