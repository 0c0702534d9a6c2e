package server

import (
	"fmt"
	"net/http"
	"strings"
)

// handleMarketSearch handles GET /api/market/search?q=.
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' must be at least 2 characters")
		return
	}

	matches, err := s.app.MarketService.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error searching tickers: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"matches": matches,
	})
}

// handleMarketTicker handles GET /api/market/tickers/{symbol}.
func (s *Server) handleMarketTicker(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.ToUpper(PathParam(r, "/api/market/tickers/", ""))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Ticker symbol is required")
		return
	}

	overview, err := s.app.MarketService.LookupOverview(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error looking up ticker: %v", err))
		return
	}
	if overview == nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Ticker '%s' not found", symbol))
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}
