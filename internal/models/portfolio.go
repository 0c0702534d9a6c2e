// Package models defines data structures for Strata
package models

import "time"

// Action is the direction of a rebalancing trade
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Holding represents a parsed portfolio position.
// Ticker is normalized to upper case at parse time; the struct is never
// mutated after parsing.
type Holding struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

// TickerDetail is the valued view of a single holding, keyed by ticker.
// Duplicate tickers in the input overwrite earlier entries under the same
// key; rows are not merged.
type TickerDetail struct {
	Shares       float64 `json:"shares"`
	CurrentPrice float64 `json:"current_price"`
	Value        float64 `json:"value"`
	CostBasis    float64 `json:"cost_basis"`
	GainLoss     float64 `json:"gain_loss"`
	Sector       string  `json:"sector"`
}

// SectorAllocation is a sector's share of total portfolio value.
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// PortfolioAnalysis is the full analysis of an uploaded portfolio.
type PortfolioAnalysis struct {
	TotalValue           float64            `json:"total_value"`
	Sectors              []SectorAllocation `json:"sectors"`
	ConcentratedSectors  []string           `json:"concentrated_sectors"`
	DiversificationScore float64            `json:"diversification_score"`
}

// PortfolioContext is the aggregate portfolio state handed to the reasoning
// augmenter. Built fresh per rebalance request.
type PortfolioContext struct {
	TotalHoldings        int      `json:"total_holdings"`
	DiversificationScore float64  `json:"diversification_score"`
	ConcentratedSectors  []string `json:"concentrated_sectors"`
	TotalValue           float64  `json:"total_value"`
}

// Recommendation is a single buy/sell adjustment toward the target model.
type Recommendation struct {
	Ticker            string  `json:"ticker"`
	Sector            string  `json:"sector"`
	Action            Action  `json:"action"`
	Shares            int     `json:"shares"`
	Amount            float64 `json:"amount"`
	CurrentPercentage float64 `json:"current_percentage"`
	TargetPercentage  float64 `json:"target_percentage"`
	Reasoning         string  `json:"reasoning"`
	AIGenerated       bool    `json:"ai_generated"`
}

// RebalancePlan is the full response of a rebalance request: current state,
// target state, and per-sector recommendations.
type RebalancePlan struct {
	ModelType         string             `json:"model_type"`
	CurrentAllocation []SectorAllocation `json:"current_allocation"`
	TargetAllocation  []SectorAllocation `json:"target_allocation"`
	Recommendations   []Recommendation   `json:"recommendations"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// ModelPortfolios maps model identifiers to their target sector weights.
// Static reference data; weights for a model are not required to sum to 100.
var ModelPortfolios = map[string]map[string]float64{
	"conservative": {
		"Technology":             15.0,
		"Healthcare":             15.0,
		"Financials":             15.0,
		"Consumer Discretionary": 10.0,
		"Consumer Staples":       10.0,
		"Industrials":            10.0,
		"Materials":              5.0,
		"Energy":                 5.0,
		"Utilities":              5.0,
		"Real Estate":            5.0,
		"Communication Services": 5.0,
	},
	"balanced": {
		"Technology":             25.0,
		"Healthcare":             15.0,
		"Financials":             15.0,
		"Consumer Discretionary": 15.0,
		"Industrials":            10.0,
		"Communication Services": 10.0,
		"Consumer Staples":       5.0,
		"Energy":                 5.0,
	},
	"growth": {
		"Technology":             40.0,
		"Healthcare":             20.0,
		"Consumer Discretionary": 20.0,
		"Communication Services": 10.0,
		"Financials":             10.0,
	},
}

// ValidModelType reports whether id names a known model portfolio.
func ValidModelType(id string) bool {
	_, ok := ModelPortfolios[id]
	return ok
}

// SavedAnalysis is a stored snapshot of a user's portfolio analysis.
type SavedAnalysis struct {
	ID        string            `json:"id" badgerhold:"key"`
	UserID    string            `json:"user_id" badgerhold:"index"`
	Analysis  PortfolioAnalysis `json:"analysis"`
	CreatedAt time.Time         `json:"created_at"`
}
