package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/strata/internal/models"
)

func detailsFor(values map[string]struct {
	value  float64
	sector string
}) (map[string]models.TickerDetail, float64) {
	details := make(map[string]models.TickerDetail, len(values))
	total := 0.0
	for ticker, v := range values {
		details[ticker] = models.TickerDetail{Value: v.value, Sector: v.sector}
		total += v.value
	}
	return details, total
}

func TestAnalyzeSectorAllocation_PercentagesSumToHundred(t *testing.T) {
	details, total := detailsFor(map[string]struct {
		value  float64
		sector string
	}{
		"AAPL": {16500, "Technology"},
		"MSFT": {15400, "Technology"},
		"SPY":  {8800, "Index Fund"},
	})

	sectors := AnalyzeSectorAllocation(details, total)
	require.Len(t, sectors, 2)

	sum := 0.0
	for _, s := range sectors {
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1.0, "sector percentages should sum to ~100")
}

func TestAnalyzeSectorAllocation_SortedDescendingWithNameTieBreak(t *testing.T) {
	details, total := detailsFor(map[string]struct {
		value  float64
		sector string
	}{
		"AAA": {2500, "Energy"},
		"BBB": {2500, "Financials"},
		"CCC": {5000, "Technology"},
	})

	sectors := AnalyzeSectorAllocation(details, total)
	require.Len(t, sectors, 3)

	assert.Equal(t, "Technology", sectors[0].Sector)
	// Equal percentages order alphabetically
	assert.Equal(t, "Energy", sectors[1].Sector)
	assert.Equal(t, "Financials", sectors[2].Sector)
}

func TestAnalyzeSectorAllocation_ZeroTotalValue(t *testing.T) {
	details, _ := detailsFor(map[string]struct {
		value  float64
		sector string
	}{
		"AAPL": {0, "Technology"},
	})

	sectors := AnalyzeSectorAllocation(details, 0)
	require.Len(t, sectors, 1)
	assert.Equal(t, 0.0, sectors[0].Percentage)
}

func TestDetectConcentrationRisks_StrictBoundary(t *testing.T) {
	sectors := []models.SectorAllocation{
		{Sector: "Technology", Percentage: 30.01},
		{Sector: "Healthcare", Percentage: 30.0},
		{Sector: "Energy", Percentage: 10.0},
	}

	concentrated := DetectConcentrationRisks(sectors)
	require.Len(t, concentrated, 1)
	assert.Equal(t, "Technology", concentrated[0])
}

func TestCalculateDiversificationScore_MonotonicInSectorCount(t *testing.T) {
	// Evenly weighted portfolios with increasing sector counts should never
	// score lower than the previous one.
	prev := -1.0
	for n := 1; n <= 6; n++ {
		sectors := make([]models.SectorAllocation, n)
		for i := range sectors {
			sectors[i] = models.SectorAllocation{
				Sector:     string(rune('A' + i)),
				Percentage: 100.0 / float64(n),
			}
		}

		score := CalculateDiversificationScore(sectors)
		assert.GreaterOrEqual(t, score, prev, "score should not decrease at %d sectors", n)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		prev = score
	}
}

func TestCalculateDiversificationScore_SingleSector(t *testing.T) {
	sectors := []models.SectorAllocation{
		{Sector: "Technology", Percentage: 100.0},
	}

	// Breadth term: 0.4 * 1/5 = 0.08; concentration term contributes nothing
	// when one sector holds everything.
	score := CalculateDiversificationScore(sectors)
	assert.InDelta(t, 0.08, score, 0.001)
}

func TestCalculateDiversificationScore_EmptyPortfolio(t *testing.T) {
	assert.Equal(t, 0.0, CalculateDiversificationScore(nil))
}

func TestCalculateDiversificationScore_FiveEvenSectors(t *testing.T) {
	sectors := make([]models.SectorAllocation, 5)
	for i := range sectors {
		sectors[i] = models.SectorAllocation{Sector: string(rune('A' + i)), Percentage: 20.0}
	}

	// Breadth saturates at 5 sectors (0.4); Herfindahl = 5 * 0.04 = 0.2,
	// so the concentration term is 0.6 * 0.8 = 0.48.
	score := CalculateDiversificationScore(sectors)
	assert.InDelta(t, 0.88, score, 0.001)
}
