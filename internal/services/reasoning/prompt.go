package reasoning

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/strata/internal/models"
)

// detailLevel selects the explanation length tier from the holdings count.
func detailLevel(totalHoldings int) string {
	switch {
	case totalHoldings <= 5:
		return "concise (50-100 words)"
	case totalHoldings <= 15:
		return "balanced (100-150 words)"
	default:
		return "comprehensive (150-300 words)"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// buildPrompt embeds the portfolio context and recommendation into an
// advisory prompt for the generative service.
func buildPrompt(rec models.Recommendation, modelType string, pctx models.PortfolioContext) string {
	concentrated := "None"
	if len(pctx.ConcentratedSectors) > 0 {
		concentrated = strings.Join(pctx.ConcentratedSectors, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are a professional financial advisor helping with portfolio rebalancing.\n\n")

	sb.WriteString("Current Portfolio Context:\n")
	fmt.Fprintf(&sb, "- Total Value: $%.2f\n", pctx.TotalValue)
	fmt.Fprintf(&sb, "- Number of Holdings: %d\n", pctx.TotalHoldings)
	fmt.Fprintf(&sb, "- Diversification Score: %.2f/1.0\n", pctx.DiversificationScore)
	fmt.Fprintf(&sb, "- Concentrated Sectors (>30%%): %s\n", concentrated)
	fmt.Fprintf(&sb, "- Target Model: %s\n\n", capitalize(modelType))

	sb.WriteString("Rebalancing Recommendation:\n")
	fmt.Fprintf(&sb, "- Action: %s %d shares of %s\n", strings.ToUpper(string(rec.Action)), rec.Shares, rec.Ticker)
	fmt.Fprintf(&sb, "- Sector: %s\n", rec.Sector)
	fmt.Fprintf(&sb, "- Current %s Allocation: %.1f%%\n", rec.Sector, rec.CurrentPercentage)
	fmt.Fprintf(&sb, "- Target %s Allocation: %.1f%%\n", rec.Sector, rec.TargetPercentage)
	fmt.Fprintf(&sb, "- Transaction Amount: $%.2f\n\n", rec.Amount)

	fmt.Fprintf(&sb, "Please provide a %s explanation for why this rebalancing recommendation makes sense. Focus on:\n\n", detailLevel(pctx.TotalHoldings))
	sb.WriteString("1. Why this allocation adjustment improves the portfolio\n")
	sb.WriteString("2. How it addresses risk management (concentration, diversification)\n")
	fmt.Fprintf(&sb, "3. How it aligns with the %s investment strategy\n\n", modelType)
	sb.WriteString("Be professional, clear, and actionable. Do not include disclaimers or legal warnings. Just provide the investment reasoning.")

	return sb.String()
}
