package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

type SavedHandler struct {
	saved repository.SavedRepo
	opps  repository.OpportunityRepo
}

func NewSavedHandler(saved repository.SavedRepo, opps repository.OpportunityRepo) *SavedHandler {
	return &SavedHandler{saved: saved, opps: opps}
}

func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ids, err := h.saved.ListSavedIDs(r.Context(), userID)
	if err != nil {
		logger.Error("list saved", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error listing saved opportunities", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.SavedIDs{IDs: ids})
}

// Save bookmarks an active opportunity. Saving twice is not an error.
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	o, err := h.opps.GetOpportunity(r.Context(), id)
	if err != nil {
		http.Error(w, "Error loading opportunity", http.StatusInternalServerError)
		return
	}
	if o == nil || !o.IsActive {
		http.Error(w, "Opportunity not found", http.StatusNotFound)
		return
	}

	if err := h.saved.SaveOpportunity(r.Context(), userID, id); err != nil {
		logger.Error("save opportunity", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error saving opportunity", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SavedHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.saved.UnsaveOpportunity(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		logger.Error("unsave opportunity", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error removing saved opportunity", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
