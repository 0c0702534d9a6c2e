package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/strata/internal/models"
)

// questionnaireSubmission is the POST /api/onboarding/submit payload.
type questionnaireSubmission struct {
	UserID  string          `json:"user_id"`
	Answers []models.Answer `json:"answers"`
}

// handleQuestionnaire handles GET /api/onboarding/questionnaire.
func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	questions := s.app.OnboardingService.Questionnaire()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

// handleQuestionnaireSubmit handles POST /api/onboarding/submit.
func (s *Server) handleQuestionnaireSubmit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var submission questionnaireSubmission
	if !DecodeJSON(w, r, &submission) {
		return
	}
	if len(submission.Answers) == 0 {
		WriteError(w, http.StatusBadRequest, "answers must not be empty")
		return
	}

	result, err := s.app.OnboardingService.Classify(r.Context(), strings.TrimSpace(submission.UserID), submission.Answers)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error classifying answers: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
