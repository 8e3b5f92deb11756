package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

type OpportunityHandler struct {
	opps     repository.OpportunityRepo
	profiles repository.ProfileRepo
	jobs     jobs.Enqueuer
}

// NewOpportunityHandler wires the listing endpoints. enq may be nil, in which
// case bookmarks of deleted listings are left to the periodic sweep.
func NewOpportunityHandler(opps repository.OpportunityRepo, profiles repository.ProfileRepo, enq jobs.Enqueuer) *OpportunityHandler {
	return &OpportunityHandler{opps: opps, profiles: profiles, jobs: enq}
}

// ListActive returns every active listing, newest first.
func (h *OpportunityHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	list, err := h.opps.ListActiveOpportunities(r.Context())
	if err != nil {
		logger.Error("list opportunities", slog.Any("err", err))
		http.Error(w, "Error listing opportunities", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one listing if it is active or owned by the caller.
func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	o, err := h.opps.GetOpportunity(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Error loading opportunity", http.StatusInternalServerError)
		return
	}
	if o == nil || (!o.IsActive && o.ProviderID != userID) {
		http.Error(w, "Opportunity not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// ListMine returns the caller's listings regardless of their active flag.
func (h *OpportunityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.opps.ListOpportunitiesByProvider(r.Context(), userID)
	if err != nil {
		logger.Error("list provider opportunities", slog.Any("err", err), slog.Int64("provider_id", userID))
		http.Error(w, "Error listing opportunities", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r, userID)
	if !ok {
		return
	}

	o := models.Opportunity{IsActive: true, ProviderID: userID}
	in.Apply(&o)
	if err := h.opps.CreateOpportunity(r.Context(), &o); err != nil {
		logger.Error("create opportunity", slog.Any("err", err), slog.Int64("provider_id", userID))
		http.Error(w, "Error creating opportunity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r, userID)
	if !ok {
		return
	}

	o, err := h.opps.UpdateOpportunity(r.Context(), mux.Vars(r)["id"], userID, in)
	if err != nil {
		logger.Error("update opportunity", slog.Any("err", err), slog.Int64("provider_id", userID))
		http.Error(w, "Error updating opportunity", http.StatusInternalServerError)
		return
	}
	if o == nil {
		http.Error(w, "Opportunity not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OpportunityHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.IsActive == nil {
		http.Error(w, "is_active is required", http.StatusBadRequest)
		return
	}

	found, err := h.opps.SetOpportunityActive(r.Context(), mux.Vars(r)["id"], userID, *req.IsActive)
	if err != nil {
		logger.Error("set opportunity active", slog.Any("err", err), slog.Int64("provider_id", userID))
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Opportunity not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a listing owned by the caller. Deleting a missing listing
// also answers 204.
func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	deleted, err := h.opps.DeleteOpportunity(r.Context(), id, userID)
	if err != nil {
		logger.Error("delete opportunity", slog.Any("err", err), slog.Int64("provider_id", userID))
		http.Error(w, "Error deleting opportunity", http.StatusInternalServerError)
		return
	}

	if deleted && h.jobs != nil {
		payload := jobs.PurgeOpportunityPayload{OpportunityID: id}
		if _, err := h.jobs.Enqueue(r.Context(), jobs.TypePurgeOpportunity, payload, 50, 5); err != nil {
			logger.Warn("enqueue saved purge", slog.Any("err", err), slog.String("opportunity_id", id))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// readInput decodes and normalizes a listing payload the same way the client
// editor does, using the caller's organization as fallback.
func (h *OpportunityHandler) readInput(w http.ResponseWriter, r *http.Request, userID int64) (models.OpportunityInput, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return models.OpportunityInput{}, false
	}

	var in models.OpportunityInput
	if err := json.Unmarshal(body, &in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return models.OpportunityInput{}, false
	}
	if err := validatePayload(r.Context(), opportunitySchema, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return models.OpportunityInput{}, false
	}

	var org string
	profile, err := h.profiles.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return models.OpportunityInput{}, false
	}
	if profile != nil {
		org = profile.OrganizationName
	}

	in, err = market.NormalizeInput(in, org)
	if err != nil {
		if errors.Is(err, market.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return models.OpportunityInput{}, false
		}
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return models.OpportunityInput{}, false
	}
	return in, true
}
