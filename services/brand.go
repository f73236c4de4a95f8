package services

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/storage"
	"furniture-survey-analysis/utils"
)

const categoryBrands = "brands"

// BrandAnalyzer computes awareness, perception and non-purchase breakdowns
// for the Isho brand questions. Buyer and non-buyer subsets are percentaged
// against the full respondent count, not the subset size.
type BrandAnalyzer struct {
	df      dataframe.DataFrame
	figures *storage.FigureStore
	logger  *utils.Logger
}

// NewBrandAnalyzer creates an analyzer over the cleaned survey table.
func NewBrandAnalyzer(df dataframe.DataFrame, figures *storage.FigureStore, logger *utils.Logger) *BrandAnalyzer {
	return &BrandAnalyzer{df: df, figures: figures, logger: logger}
}

// Analyze computes the brand breakdowns, renders charts, and prints the
// console summary.
func (a *BrandAnalyzer) Analyze(meta models.RunMeta) (*models.BrandReport, error) {
	a.logger.Info("[brand] Starting brand analysis")

	awareness, err := a.brandAwareness()
	if err != nil {
		return nil, err
	}
	perceptions, err := a.brandPerceptions()
	if err != nil {
		return nil, err
	}
	nonPurchase, err := ValueCounts(a.df, models.ColIshoNonPurchase, a.df.Nrow())
	if err != nil {
		return nil, err
	}

	report := &models.BrandReport{
		Meta:               meta,
		Awareness:          awareness,
		Perceptions:        perceptions,
		NonPurchaseReasons: nonPurchase,
	}

	if err := a.createPlots(report); err != nil {
		return nil, err
	}
	a.printSummary(report)

	a.logger.Info("[brand] Brand analysis completed")
	return report, nil
}

func (a *BrandAnalyzer) brandAwareness() (map[string]models.Distribution, error) {
	total := a.df.Nrow()

	familiarity, err := ValueCountsByLabel(a.df, models.ColIshoFamiliarity, total)
	if err != nil {
		return nil, err
	}
	feedback, err := ValueCounts(a.df, models.ColIshoFeedback, total)
	if err != nil {
		return nil, err
	}
	purchase, err := ValueCounts(a.df, models.ColIshoBought, total)
	if err != nil {
		return nil, err
	}

	return map[string]models.Distribution{
		"familiarity": familiarity,
		"feedback":    feedback,
		"purchase":    purchase,
	}, nil
}

func (a *BrandAnalyzer) brandPerceptions() (map[string]models.Distribution, error) {
	total := a.df.Nrow()

	buyers, err := SubsetEq(a.df, models.ColIshoBought, "Yes")
	if err != nil {
		return nil, err
	}
	nonBuyers, err := SubsetEq(a.df, models.ColIshoBought, "No")
	if err != nil {
		return nil, err
	}

	buyersAssoc, err := ValueCounts(buyers, models.ColIshoAssociations, total)
	if err != nil {
		return nil, err
	}
	nonBuyersAssoc, err := ValueCounts(nonBuyers, models.ColIshoAssociations, total)
	if err != nil {
		return nil, err
	}
	factors, err := SplitCounts(buyers, models.ColIshoFactors, ",", total)
	if err != nil {
		return nil, err
	}
	buyerComparison, err := ValueCounts(buyers, models.ColIshoComparison, total)
	if err != nil {
		return nil, err
	}
	nonBuyerComparison, err := ValueCounts(nonBuyers, models.ColIshoComparison, total)
	if err != nil {
		return nil, err
	}
	recommendation, err := ValueCountsByLabel(a.df, models.ColIshoRecommend, total)
	if err != nil {
		return nil, err
	}

	return map[string]models.Distribution{
		"buyers_associations":     buyersAssoc,
		"non_buyers_associations": nonBuyersAssoc,
		"factors":                 factors,
		"buyer_comparison":        buyerComparison,
		"non_buyer_comparison":    nonBuyerComparison,
		"recommendation":          recommendation,
	}, nil
}

func (a *BrandAnalyzer) createPlots(r *models.BrandReport) error {
	if familiarity := r.Awareness["familiarity"]; !familiarity.Empty() {
		p, err := barChart(familiarity, "Isho Brand Familiarity Distribution",
			"Familiarity Score (1-5)", "Number of Responses")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "brand_familiarity", categoryBrands); err != nil {
			return err
		}
	}

	assocPlots := []struct {
		key   string
		title string
		name  string
	}{
		{"buyers_associations", "Isho Brand Associations (Buyers)", "isho_brand_associations_buyers"},
		{"non_buyers_associations", "Isho Brand Associations (Non-Buyers)", "isho_brand_associations_non-buyers"},
	}
	for _, ap := range assocPlots {
		dist := r.Perceptions[ap.key]
		if dist.Empty() {
			continue
		}
		p, err := horizontalBarChart(dist, ap.title, "Number of Responses", "Category")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, ap.name, categoryBrands); err != nil {
			return err
		}
	}

	if recommendation := r.Perceptions["recommendation"]; !recommendation.Empty() {
		p, err := barChart(recommendation, "Isho Recommendation Score Distribution",
			"Recommendation Score (1-5)", "Number of Responses")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "recommendation_distribution", categoryBrands); err != nil {
			return err
		}
	}

	if !r.NonPurchaseReasons.Empty() {
		p, err := horizontalBarChart(r.NonPurchaseReasons, "Reasons for Not Purchasing from Isho",
			"Number of Responses", "Category")
		if err != nil {
			return err
		}
		if err := a.figures.Save(p, "non_purchase_reasons", categoryBrands); err != nil {
			return err
		}
	}

	return nil
}

func (a *BrandAnalyzer) printSummary(r *models.BrandReport) {
	printHeader("ISHO BRAND ANALYSIS")

	printSection("Brand Awareness")
	fmt.Println("\n  Familiarity Scores (1-5):")
	for _, e := range r.Awareness["familiarity"] {
		fmt.Printf("  Score %-28s %4d (%.1f%%)\n", e.Label, e.Count, e.Percentage)
	}
	fmt.Println("\n  Feedback Heard:")
	for _, e := range r.Awareness["feedback"] {
		fmt.Printf("  %-34s %4d (%.1f%%)\n", e.Label, e.Count, e.Percentage)
	}

	printSection("Brand Perceptions")
	if buyers := r.Perceptions["buyers_associations"]; !buyers.Empty() {
		fmt.Println("\n  Buyers' Brand Associations:")
		for _, e := range buyers.Head(5) {
			fmt.Printf("  %-34s %.1f%%\n", e.Label, e.Percentage)
		}
	}
	if nonBuyers := r.Perceptions["non_buyers_associations"]; !nonBuyers.Empty() {
		fmt.Println("\n  Non-Buyers' Brand Associations:")
		for _, e := range nonBuyers.Head(5) {
			fmt.Printf("  %-34s %.1f%%\n", e.Label, e.Percentage)
		}
	}
	fmt.Println("\n  Brand Comparison (Buyers):")
	for _, e := range r.Perceptions["buyer_comparison"] {
		fmt.Printf("  %-34s %.1f%%\n", e.Label, e.Percentage)
	}
	fmt.Println("\n  Brand Comparison (Non-Buyers):")
	for _, e := range r.Perceptions["non_buyer_comparison"] {
		fmt.Printf("  %-34s %.1f%%\n", e.Label, e.Percentage)
	}

	if !r.NonPurchaseReasons.Empty() {
		printSection("Top Reasons for Not Purchasing")
		for _, e := range r.NonPurchaseReasons.Head(5) {
			fmt.Printf("  %-34s %.1f%%\n", e.Label, e.Percentage)
		}
	}

	printFooter()
}
