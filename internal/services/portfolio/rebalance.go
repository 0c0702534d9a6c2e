package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

// RebalanceDeadZone is the allocation deviation, in percentage points, below
// which no recommendation is emitted. Avoids churn near the target.
const RebalanceDeadZone = 5.0

// ErrInvalidModel rejects an unrecognized target model identifier before any
// computation begins.
var ErrInvalidModel = errors.New("model_type must be 'conservative', 'balanced', or 'growth'")

// Rebalance diffs the current sector allocation against a named target model
// and derives buy/sell recommendations. Augmentation failures degrade to the
// deterministic reasoning string and are never surfaced to the caller.
func (s *Service) Rebalance(ctx context.Context, holdings []models.Holding, modelType string) (*models.RebalancePlan, error) {
	model, ok := models.ModelPortfolios[modelType]
	if !ok {
		return nil, ErrInvalidModel
	}

	s.logger.Info().Str("model_type", modelType).Int("holdings", len(holdings)).Msg("Generating rebalance plan")

	totalValue, details := s.valueHoldings(ctx, holdings)
	currentSectors := AnalyzeSectorAllocation(details, totalValue)

	currentAllocation := make(map[string]float64, len(currentSectors))
	for _, sec := range currentSectors {
		currentAllocation[sec.Sector] = sec.Percentage
	}

	pctx := models.PortfolioContext{
		TotalHoldings:        len(details),
		DiversificationScore: CalculateDiversificationScore(currentSectors),
		ConcentratedSectors:  DetectConcentrationRisks(currentSectors),
		TotalValue:           totalValue,
	}

	// Target sectors in sorted order so the plan is deterministic.
	targetSectors := make([]string, 0, len(model))
	for sector := range model {
		targetSectors = append(targetSectors, sector)
	}
	sort.Strings(targetSectors)

	var recommendations []models.Recommendation
	for _, targetSector := range targetSectors {
		targetPct := model[targetSector]
		currentPct := currentAllocation[targetSector]
		diff := targetPct - currentPct

		if math.Abs(diff) <= RebalanceDeadZone {
			continue
		}

		action := models.ActionSell
		verb := "Reduce"
		if diff > 0 {
			action = models.ActionBuy
			verb = "Increase"
		}
		basicReasoning := fmt.Sprintf("%s %s allocation from %.1f%% to target %.1f%%", verb, targetSector, currentPct, targetPct)

		valueDiff := math.Abs(totalValue*targetPct/100 - totalValue*currentPct/100)

		// Representative ticker: first current holding in the target sector
		// by sorted ticker order. With no holding in the sector, the gap is
		// silently skipped regardless of its size.
		ticker, detail, found := representativeTicker(details, targetSector)
		if !found {
			continue
		}

		shares := int(valueDiff / detail.CurrentPrice)
		if shares <= 0 {
			continue
		}

		rec := models.Recommendation{
			Ticker:            ticker,
			Sector:            targetSector,
			Action:            action,
			Shares:            shares,
			Amount:            round2(float64(shares) * detail.CurrentPrice),
			CurrentPercentage: round2(currentPct),
			TargetPercentage:  round2(targetPct),
			Reasoning:         basicReasoning,
			AIGenerated:       false,
		}

		if s.reasoning != nil {
			aiReasoning, err := s.reasoning.Augment(ctx, rec, modelType, pctx)
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Reasoning augmentation failed, keeping basic reasoning")
			} else if aiReasoning != "" {
				rec.Reasoning = aiReasoning
				rec.AIGenerated = true
				s.logger.Debug().Str("ticker", ticker).Msg("AI reasoning generated")
			}
		}

		recommendations = append(recommendations, rec)
	}

	targetAllocation := make([]models.SectorAllocation, 0, len(model))
	for _, sector := range targetSectors {
		pct := model[sector]
		targetAllocation = append(targetAllocation, models.SectorAllocation{
			Sector:     sector,
			Percentage: pct,
			Amount:     round2(totalValue * pct / 100),
		})
	}
	sort.Slice(targetAllocation, func(i, j int) bool {
		if targetAllocation[i].Percentage != targetAllocation[j].Percentage {
			return targetAllocation[i].Percentage > targetAllocation[j].Percentage
		}
		return targetAllocation[i].Sector < targetAllocation[j].Sector
	})

	return &models.RebalancePlan{
		ModelType:         modelType,
		CurrentAllocation: currentSectors,
		TargetAllocation:  targetAllocation,
		Recommendations:   recommendations,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

// representativeTicker picks the first ticker in the sector by sorted ticker
// order, standing in for insertion order over the detail map.
func representativeTicker(details map[string]models.TickerDetail, sector string) (string, models.TickerDetail, bool) {
	tickers := make([]string, 0, len(details))
	for t := range details {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, t := range tickers {
		if details[t].Sector == sector {
			return t, details[t], true
		}
	}
	return "", models.TickerDetail{}, false
}
