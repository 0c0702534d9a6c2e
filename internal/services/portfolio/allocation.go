package portfolio

import (
	"math"
	"sort"

	"github.com/bobmcallan/strata/internal/models"
)

const (
	// SectorConcentrationThreshold flags any single sector strictly above
	// this share of portfolio value.
	SectorConcentrationThreshold = 30.0

	// DiversificationTargetSectors is the sector count that saturates the
	// breadth term of the diversification score.
	DiversificationTargetSectors = 5
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnalyzeSectorAllocation groups ticker details by sector and converts the
// per-sector value into a percentage of total value (0 when the total is 0).
// Sorted descending by percentage; ties break on sector name ascending so
// the order is deterministic.
func AnalyzeSectorAllocation(details map[string]models.TickerDetail, totalValue float64) []models.SectorAllocation {
	sectorTotals := make(map[string]float64)
	for _, d := range details {
		sectorTotals[d.Sector] += d.Value
	}

	sectors := make([]models.SectorAllocation, 0, len(sectorTotals))
	for sector, amount := range sectorTotals {
		percentage := 0.0
		if totalValue > 0 {
			percentage = amount / totalValue * 100
		}
		sectors = append(sectors, models.SectorAllocation{
			Sector:     sector,
			Percentage: round2(percentage),
			Amount:     round2(amount),
		})
	}

	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].Percentage != sectors[j].Percentage {
			return sectors[i].Percentage > sectors[j].Percentage
		}
		return sectors[i].Sector < sectors[j].Sector
	})

	return sectors
}

// DetectConcentrationRisks returns the sectors whose allocation strictly
// exceeds the concentration threshold. Exactly 30.0 is not flagged.
func DetectConcentrationRisks(sectors []models.SectorAllocation) []string {
	var concentrated []string
	for _, s := range sectors {
		if s.Percentage > SectorConcentrationThreshold {
			concentrated = append(concentrated, s.Sector)
		}
	}
	return concentrated
}

// CalculateDiversificationScore scores diversification in [0,1]:
// 0.4 weighted on sector breadth (saturating at 5 sectors) and 0.6 on one
// minus a Herfindahl concentration index over fractional sector weights.
func CalculateDiversificationScore(sectors []models.SectorAllocation) float64 {
	if len(sectors) == 0 {
		return 0.0
	}

	sectorScore := math.Min(1.0, float64(len(sectors))/float64(DiversificationTargetSectors))

	herfindahl := 0.0
	for _, s := range sectors {
		w := s.Percentage / 100
		herfindahl += w * w
	}
	concentrationScore := 1.0 - math.Min(1.0, herfindahl)

	return round2(sectorScore*0.4 + concentrationScore*0.6)
}
