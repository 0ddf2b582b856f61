package http

import (
	"net/http"
	"strconv"

	"luxe/internal/analytics"
	"luxe/internal/core"
)

type expenseRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Notes    string  `json:"notes"`
}

type earningRequest struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
	Notes  string  `json:"notes"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !core.ValidAmount(req.Amount) {
		respondError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	expense := s.ledger.CreateExpense(req.Amount, category, sanitizeInput(req.Notes))
	respondJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !core.ValidAmount(req.Amount) {
		respondError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	expense, ok := s.ledger.UpdateExpense(id, req.Amount, category, sanitizeInput(req.Notes))
	if !ok {
		respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	// Removal of an unknown id is not an error.
	s.ledger.DeleteExpense(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateEarning(w http.ResponseWriter, r *http.Request) {
	var req earningRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !core.ValidAmount(req.Amount) {
		respondError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}
	source, err := core.ParseSource(req.Source)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown source")
		return
	}

	earning := s.ledger.CreateEarning(req.Amount, source, sanitizeInput(req.Notes))
	respondJSON(w, http.StatusCreated, earning)
}

func (s *Server) handleTransactions(w http.ResponseWriter, _ *http.Request) {
	merged := analytics.Merged(s.ledger.Expenses(), s.ledger.Earnings())
	if merged == nil {
		merged = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, merged)
}
