// Package portfolio implements the portfolio analytics and rebalancing engine.
package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bobmcallan/strata/internal/models"
)

// FormatError rejects malformed holdings input: missing columns, empty
// input, non-numeric cells, or zero valid rows. A parse either succeeds for
// the whole input or fails with one of these; there is no partial mode.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid portfolio format: " + e.Reason
}

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// ParseCSV parses delimited holdings input with a header row. The identifier
// column may be named "ticker" or "symbol"; "shares" and "purchase_price"
// are required. Column names are exact and case-sensitive.
func (s *Service) ParseCSV(r io.Reader) ([]models.Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &FormatError{Reason: "input is empty"}
	}
	if err != nil {
		return nil, formatErrorf("unreadable header row: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	tickerIdx, ok := cols["ticker"]
	if !ok {
		tickerIdx, ok = cols["symbol"]
	}
	sharesIdx, hasShares := cols["shares"]
	priceIdx, hasPrice := cols["purchase_price"]

	if !ok || !hasShares || !hasPrice {
		return nil, &FormatError{Reason: "input must contain columns: ticker (or symbol), shares, purchase_price"}
	}

	var holdings []models.Holding
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, formatErrorf("unreadable row: %v", err)
		}

		if len(record) <= tickerIdx || len(record) <= sharesIdx || len(record) <= priceIdx {
			return nil, formatErrorf("row %v has too few columns", record)
		}

		ticker := strings.ToUpper(strings.TrimSpace(record[tickerIdx]))
		if ticker == "" {
			return nil, &FormatError{Reason: "row has an empty ticker"}
		}

		shares, err := strconv.ParseFloat(strings.TrimSpace(record[sharesIdx]), 64)
		if err != nil {
			return nil, formatErrorf("invalid shares value %q for %s", record[sharesIdx], ticker)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceIdx]), 64)
		if err != nil {
			return nil, formatErrorf("invalid purchase_price value %q for %s", record[priceIdx], ticker)
		}

		holdings = append(holdings, models.Holding{
			Ticker:        ticker,
			Shares:        shares,
			PurchasePrice: price,
		})
	}

	if len(holdings) == 0 {
		return nil, &FormatError{Reason: "input contains no holdings"}
	}

	return holdings, nil
}
