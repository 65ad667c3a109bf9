package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/workforce-api/internal/dto"
)

// ListActivities answers GET /activities?area_id=&cost_center=
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	areaID, err := queryInt64(r, "area_id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid area_id", err.Error())
		return
	}
	query := dto.ActivityQuery{
		AreaID:     areaID,
		CostCenter: strings.TrimSpace(r.URL.Query().Get("cost_center")),
	}
	if !h.validate(w, r, &query) {
		return
	}

	activities, err := h.activities.List(r.Context(), &query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, activities)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req dto.ActivityRequest
	if !h.decode(w, r, &req) {
		return
	}
	activity, err := h.activities.Create(r.Context(), p, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, activity)
}

func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req dto.ActivityRequest
	if !h.decode(w, r, &req) {
		return
	}
	activity, err := h.activities.Update(r.Context(), p, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, activity)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := h.activities.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
