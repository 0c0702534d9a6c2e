package onboarding

import (
	"context"
	"math"
	"time"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// Service implements OnboardingService
type Service struct {
	store  interfaces.InternalStore
	logger *common.Logger
}

// NewService creates a new onboarding service. The store may be nil, in which
// case classifications are not persisted.
func NewService(store interfaces.InternalStore, logger *common.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Questionnaire returns the full question list.
func (s *Service) Questionnaire() []models.Question {
	return questionnaire
}

// riskScore sums the risk weights of the selected options. Unknown question
// IDs and unknown answer values are skipped, not errors.
func riskScore(answers []models.Answer) int {
	total := 0
	for _, a := range answers {
		for _, q := range questionnaire {
			if q.ID != a.QuestionID {
				continue
			}
			for _, opt := range q.Options {
				if opt.Value == a.Answer {
					total += opt.RiskScore
				}
			}
		}
	}
	return total
}

func answerTo(answers []models.Answer, questionID int) string {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a.Answer
		}
	}
	return ""
}

// Classify scores the answers and derives the persona.
//
// Score range is 10-50: Starter at <= 20, Rebalance for 21-35, Moonshot at
// >= 36. The advice-type answer (Q8) is weighted heavily and the portfolio
// answer (Q2) influences the Rebalance classification.
func (s *Service) Classify(ctx context.Context, userID string, answers []models.Answer) (*models.PersonaResult, error) {
	score := riskScore(answers)

	hasPortfolio := answerTo(answers, 2)
	adviceType := answerTo(answers, 8)

	var persona, reasoning string
	switch {
	case adviceType == "simple" || score <= 20:
		persona = models.PersonaStarter
		reasoning = "Low risk tolerance and preference for simple index fund recommendations."
	case adviceType == "analysis" || ((hasPortfolio == "small" || hasPortfolio == "substantial") && score >= 21 && score <= 35):
		persona = models.PersonaRebalance
		reasoning = "Existing portfolio with moderate risk tolerance seeking analysis and rebalancing."
	case adviceType == "ideas" || score >= 36:
		persona = models.PersonaMoonshot
		reasoning = "High risk tolerance seeking aggressive growth ideas and research-backed opportunities."
	case score <= 35:
		persona = models.PersonaRebalance
		reasoning = "Moderate risk profile with portfolio management needs."
	default:
		persona = models.PersonaMoonshot
		reasoning = "Aggressive risk profile seeking high-growth opportunities."
	}

	// Confidence grows with distance from the band midpoint.
	confidence := math.Min(0.95, 0.6+math.Abs(float64(score)-25)/50)

	result := &models.PersonaResult{
		Persona:    persona,
		RiskScore:  score,
		Confidence: math.Round(confidence*100) / 100,
		Reasoning:  reasoning,
	}

	if userID != "" && s.store != nil {
		profile := &models.UserProfile{
			UserID:     userID,
			Persona:    result.Persona,
			RiskScore:  result.RiskScore,
			Confidence: result.Confidence,
			Reasoning:  result.Reasoning,
			ModifiedAt: time.Now().UTC(),
		}
		if err := s.store.SaveProfile(ctx, profile); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to persist persona profile")
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("persona", result.Persona).
		Int("risk_score", result.RiskScore).
		Msg("Persona classified")

	return result, nil
}

// Ensure Service implements OnboardingService
var _ interfaces.OnboardingService = (*Service)(nil)
