package portfolio

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/strata/internal/models"
)

// sectorPalette cycles across bars so adjacent sectors stay distinguishable.
var sectorPalette = []string{
	"2563eb", // blue-600
	"16a34a", // green-600
	"d97706", // amber-600
	"dc2626", // red-600
	"7c3aed", // violet-600
	"0891b2", // cyan-600
	"db2777", // pink-600
	"65a30d", // lime-600
}

// RenderAllocationChart renders a PNG bar chart of sector allocation
// percentages, one bar per sector in descending order. Returns raw PNG bytes.
func RenderAllocationChart(sectors []models.SectorAllocation) ([]byte, error) {
	if len(sectors) == 0 {
		return nil, fmt.Errorf("no sectors to chart")
	}

	bars := make([]chart.Value, len(sectors))
	for i, s := range sectors {
		bars[i] = chart.Value{
			Label: s.Sector,
			Value: s.Percentage,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(sectorPalette[i%len(sectorPalette)]),
				StrokeColor: drawing.ColorFromHex(sectorPalette[i%len(sectorPalette)]),
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Sector Allocation",
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
