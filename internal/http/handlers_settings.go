package http

import (
	"log/slog"
	"net/http"

	"luxe/internal/assistant"
	"luxe/internal/core"
)

func (s *Server) handleGetGoal(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Goal())
}

func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeBody(r, &goal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.ledger.SetGoal(goal); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "goal amounts must not be negative")
		return
	}
	respondJSON(w, http.StatusOK, s.ledger.Goal())
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Budgets())
}

type budgetRequest struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}
	if !s.ledger.SetBudget(category, req.Limit) {
		respondError(w, http.StatusUnprocessableEntity, "limit must be a positive number")
		return
	}
	respondJSON(w, http.StatusOK, s.ledger.Budgets())
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	category, err := core.ParseCategory(r.PathValue("category"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}
	s.ledger.RemoveBudget(category)
	w.WriteHeader(http.StatusNoContent)
}

type profileResponse struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	name, avatarID := s.ledger.Profile()
	respondJSON(w, http.StatusOK, profileResponse{Name: name, AvatarID: avatarID})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileResponse
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.ledger.SetProfile(sanitizeInput(req.Name), sanitizeInput(req.AvatarID))
	name, avatarID := s.ledger.Profile()
	respondJSON(w, http.StatusOK, profileResponse{Name: name, AvatarID: avatarID})
}

const assistantFailureMessage = "The assistant is unavailable right now. Please try again later."

func (s *Server) handleAssistantGreeting(w http.ResponseWriter, _ *http.Request) {
	name, _ := s.ledger.Profile()
	respondJSON(w, http.StatusOK, map[string]string{"greeting": assistant.Greeting(name)})
}

type assistantRequest struct {
	Question string `json:"question"`
}

// handleAssistant forwards one question to the model with a snapshot of
// recent records. Every failure mode collapses into the same generic
// message; the cause is only logged.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := sanitizeInput(req.Question)
	if question == "" {
		respondError(w, http.StatusUnprocessableEntity, "question must not be empty")
		return
	}
	if s.asker == nil {
		respondError(w, http.StatusServiceUnavailable, assistantFailureMessage)
		return
	}

	name, _ := s.ledger.Profile()
	snap := assistant.NewSnapshot(name, s.ledger.Expenses(), s.ledger.Earnings())
	answer, err := s.asker.Ask(r.Context(), question, snap)
	if err != nil {
		slog.ErrorContext(r.Context(), "Assistant request failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, assistantFailureMessage)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
