package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workforce-api/internal/dto"
)

func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.hierarchy.Areas(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, areas)
}

func (h *Handler) Scope(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	employees, err := h.hierarchy.Scope(r.Context(), p)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, employees)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	ov, err := h.hierarchy.Overview(r.Context(), p)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ov)
}

// Directory answers GET /employees/{id}/directory?same_unit=true&area_id=N
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	areaID, err := queryInt64(r, "area_id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid area_id", err.Error())
		return
	}
	query := dto.DirectoryQuery{
		SameUnit: r.URL.Query().Get("same_unit") == "true",
		AreaID:   areaID,
	}
	if !h.validate(w, r, &query) {
		return
	}

	node, err := h.hierarchy.Directory(r.Context(), p, chi.URLParam(r, "id"), &query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, node)
}

func (h *Handler) Directorate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	d, err := h.hierarchy.Directorate(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, d)
}

func (h *Handler) Chain(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	chain, err := h.hierarchy.Chain(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, chain)
}
