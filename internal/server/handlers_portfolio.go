package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/strata/internal/models"
	"github.com/bobmcallan/strata/internal/services/portfolio"
)

// holdingsRequest is the JSON payload accepted by the analyze, rebalance,
// and chart endpoints.
type holdingsRequest struct {
	Holdings []models.Holding `json:"holdings"`
}

// userID returns the caller's user ID header, if any. There is no session
// layer here; identity arrives from the upstream gateway.
func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Strata-User-ID"))
}

// requireRebalancePersona enforces the persona gate on portfolio analytics.
// Callers without a stored profile pass through; a stored profile with a
// different persona is rejected.
func (s *Server) requireRebalancePersona(w http.ResponseWriter, r *http.Request) bool {
	uid := userID(r)
	if uid == "" || s.app.Store == nil {
		return true
	}

	profile, err := s.app.Store.GetProfile(r.Context(), uid)
	if err != nil {
		return true
	}

	if profile.Persona != models.PersonaRebalance {
		WriteError(w, http.StatusForbidden, "Portfolio analysis is only available for the Rebalance persona")
		return false
	}
	return true
}

// readHoldings extracts holdings from the request: multipart "file" part or
// raw CSV body. Parse failures are caller errors.
func (s *Server) readHoldings(w http.ResponseWriter, r *http.Request) ([]models.Holding, bool) {
	var reader io.Reader = r.Body

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Multipart upload requires a 'file' part")
			return nil, false
		}
		defer file.Close()
		reader = file
	}

	holdings, err := s.app.PortfolioService.ParseCSV(reader)
	if err != nil {
		var formatErr *portfolio.FormatError
		if errors.As(err, &formatErr) {
			WriteError(w, http.StatusBadRequest, formatErr.Error())
		} else {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error parsing portfolio: %v", err))
		}
		return nil, false
	}

	return holdings, true
}

// decodeHoldings decodes and normalizes a JSON holdings payload.
func decodeHoldings(w http.ResponseWriter, r *http.Request) ([]models.Holding, bool) {
	var req holdingsRequest
	if !DecodeJSON(w, r, &req) {
		return nil, false
	}
	if len(req.Holdings) == 0 {
		WriteError(w, http.StatusBadRequest, "holdings must not be empty")
		return nil, false
	}

	for i := range req.Holdings {
		req.Holdings[i].Ticker = strings.ToUpper(strings.TrimSpace(req.Holdings[i].Ticker))
		if req.Holdings[i].Ticker == "" {
			WriteError(w, http.StatusBadRequest, "holding ticker must not be empty")
			return nil, false
		}
	}

	return req.Holdings, true
}

// handlePortfolioUpload handles POST /api/portfolio/upload: CSV in, full
// analysis out.
func (s *Server) handlePortfolioUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.requireRebalancePersona(w, r) {
		return
	}

	holdings, ok := s.readHoldings(w, r)
	if !ok {
		return
	}

	analysis, err := s.app.PortfolioService.Analyze(r.Context(), holdings)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error analyzing portfolio: %v", err))
		return
	}

	s.saveAnalysis(r, analysis)

	WriteJSON(w, http.StatusOK, analysis)
}

// handlePortfolioAnalyze handles POST /api/portfolio/analyze: JSON holdings
// in, full analysis out.
func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.requireRebalancePersona(w, r) {
		return
	}

	holdings, ok := decodeHoldings(w, r)
	if !ok {
		return
	}

	analysis, err := s.app.PortfolioService.Analyze(r.Context(), holdings)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error analyzing portfolio: %v", err))
		return
	}

	s.saveAnalysis(r, analysis)

	WriteJSON(w, http.StatusOK, analysis)
}

// handlePortfolioRebalance handles POST /api/portfolio/rebalance?model_type=.
func (s *Server) handlePortfolioRebalance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.requireRebalancePersona(w, r) {
		return
	}

	modelType := r.URL.Query().Get("model_type")
	if modelType == "" {
		modelType = "balanced"
	}
	// Reject bad identifiers before touching the body.
	if !models.ValidModelType(modelType) {
		WriteError(w, http.StatusBadRequest, portfolio.ErrInvalidModel.Error())
		return
	}

	holdings, ok := decodeHoldings(w, r)
	if !ok {
		return
	}

	plan, err := s.app.PortfolioService.Rebalance(r.Context(), holdings, modelType)
	if err != nil {
		if errors.Is(err, portfolio.ErrInvalidModel) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating recommendations: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, plan)
}

// handlePortfolioChart handles POST /api/portfolio/chart: JSON holdings in,
// sector allocation PNG out.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.requireRebalancePersona(w, r) {
		return
	}

	holdings, ok := decodeHoldings(w, r)
	if !ok {
		return
	}

	png, err := s.app.PortfolioService.RenderAllocationChart(r.Context(), holdings)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rendering chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handlePortfolioAnalyses handles GET /api/portfolio/analyses: stored
// analysis snapshots for the calling user.
func (s *Server) handlePortfolioAnalyses(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uid := userID(r)
	if uid == "" {
		WriteError(w, http.StatusBadRequest, "X-Strata-User-ID header is required")
		return
	}

	analyses, err := s.app.Store.ListAnalyses(r.Context(), uid)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing analyses: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
	})
}

// saveAnalysis stores an analysis snapshot for the calling user, best-effort.
func (s *Server) saveAnalysis(r *http.Request, analysis *models.PortfolioAnalysis) {
	uid := userID(r)
	if uid == "" || s.app.Store == nil {
		return
	}

	saved := &models.SavedAnalysis{
		ID:        uuid.New().String(),
		UserID:    uid,
		Analysis:  *analysis,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.app.Store.SaveAnalysis(r.Context(), saved); err != nil {
		s.logger.Warn().Err(err).Str("user_id", uid).Msg("Failed to save analysis snapshot")
	}
}
