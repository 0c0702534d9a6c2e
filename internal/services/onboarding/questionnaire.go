// Package onboarding serves the risk questionnaire and classifies users
// into advisory personas.
package onboarding

import "github.com/bobmcallan/strata/internal/models"

// questionnaire is the static question set with scoring weights. Question 2
// (existing portfolio) and question 8 (advice type) also feed the persona
// decision directly.
var questionnaire = []models.Question{
	{
		ID:       1,
		Question: "What is your investment experience level?",
		Options: []models.AnswerOption{
			{Value: "beginner", Text: "Beginner - I'm just starting out", RiskScore: 1},
			{Value: "intermediate", Text: "Intermediate - I have some experience", RiskScore: 3},
			{Value: "advanced", Text: "Advanced - I'm very experienced", RiskScore: 5},
		},
	},
	{
		ID:       2,
		Question: "Do you currently have an investment portfolio?",
		Options: []models.AnswerOption{
			{Value: "no", Text: "No, I'm starting fresh", RiskScore: 1},
			{Value: "small", Text: "Yes, a small portfolio", RiskScore: 3},
			{Value: "substantial", Text: "Yes, a substantial portfolio", RiskScore: 4},
		},
	},
	{
		ID:       3,
		Question: "What is your risk tolerance?",
		Options: []models.AnswerOption{
			{Value: "low", Text: "Low - I prefer stable, safe investments", RiskScore: 1},
			{Value: "moderate", Text: "Moderate - Balanced approach", RiskScore: 3},
			{Value: "high", Text: "High - I'm comfortable with volatility", RiskScore: 5},
		},
	},
	{
		ID:       4,
		Question: "What is your primary investment goal?",
		Options: []models.AnswerOption{
			{Value: "preservation", Text: "Capital preservation", RiskScore: 1},
			{Value: "growth", Text: "Long-term growth", RiskScore: 3},
			{Value: "aggressive", Text: "Aggressive growth", RiskScore: 5},
		},
	},
	{
		ID:       5,
		Question: "How much time do you want to spend managing investments?",
		Options: []models.AnswerOption{
			{Value: "minimal", Text: "Minimal - Set and forget", RiskScore: 1},
			{Value: "moderate", Text: "Moderate - Periodic reviews", RiskScore: 3},
			{Value: "active", Text: "Active - Regular monitoring", RiskScore: 4},
		},
	},
	{
		ID:       6,
		Question: "What is your investment time horizon?",
		Options: []models.AnswerOption{
			{Value: "short", Text: "Short-term (< 3 years)", RiskScore: 1},
			{Value: "medium", Text: "Medium-term (3-10 years)", RiskScore: 3},
			{Value: "long", Text: "Long-term (10+ years)", RiskScore: 5},
		},
	},
	{
		ID:       7,
		Question: "How do you react to market downturns?",
		Options: []models.AnswerOption{
			{Value: "panic", Text: "I get nervous and want to sell", RiskScore: 1},
			{Value: "concerned", Text: "I'm concerned but stay the course", RiskScore: 3},
			{Value: "opportunity", Text: "I see it as a buying opportunity", RiskScore: 5},
		},
	},
	{
		ID:       8,
		Question: "What type of investment advice are you seeking?",
		Options: []models.AnswerOption{
			{Value: "simple", Text: "Simple recommendations (e.g., index funds)", RiskScore: 1},
			{Value: "analysis", Text: "Portfolio analysis and rebalancing", RiskScore: 3},
			{Value: "ideas", Text: "Growth ideas and research", RiskScore: 5},
		},
	},
	{
		ID:       9,
		Question: "How important is diversification to you?",
		Options: []models.AnswerOption{
			{Value: "critical", Text: "Critical - I want maximum diversification", RiskScore: 2},
			{Value: "important", Text: "Important - Balanced diversification", RiskScore: 3},
			{Value: "flexible", Text: "Flexible - Willing to concentrate", RiskScore: 4},
		},
	},
	{
		ID:       10,
		Question: "What is your age range?",
		Options: []models.AnswerOption{
			{Value: "young", Text: "Under 30", RiskScore: 5},
			{Value: "middle", Text: "30-50", RiskScore: 3},
			{Value: "older", Text: "Over 50", RiskScore: 2},
		},
	},
}
