package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
	"github.com/workforce-api/internal/export"
)

func (h *Handler) Utilization(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	summary, err := h.distribution.Summary(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, summary)
}

// Utilizations answers GET /utilization?unit=&area_id=&cost_center=
func (h *Handler) Utilizations(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	query, ok := h.employeeQuery(w, r)
	if !ok {
		return
	}
	summaries, err := h.distribution.Summaries(r.Context(), p, query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, summaries)
}

func (h *Handler) SaveDistributions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req dto.SaveDistributionsRequest
	if !h.decode(w, r, &req) {
		return
	}

	employeeID := chi.URLParam(r, "id")
	rows := make([]domain.Distribution, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = row.ToDomain(employeeID)
	}

	res, err := h.distribution.Save(r.Context(), p, employeeID, rows)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, dto.SaveDistributionsResponse{
		Saved:      res.Saved,
		Incomplete: res.Incomplete,
	})
}

func (h *Handler) ClearDistributions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	n, err := h.distribution.Clear(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, dto.ClearDistributionsResponse{Deleted: n})
}

func (h *Handler) CopyDistributions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req dto.CopyDistributionsRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.distribution.Copy(r.Context(), p, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, dto.CopyDistributionsResponse{
		Targets: res.Targets,
		Rows:    res.Rows,
	})
}

func (h *Handler) FillRemaining(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req dto.FillRemainingRequest
	if !h.decode(w, r, &req) {
		return
	}
	changed, err := h.distribution.FillRemaining(r.Context(), p, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, dto.FillRemainingResponse{Changed: changed})
}

// ExportDistributions streams the complete rows visible to the caller as XLSX
func (h *Handler) ExportDistributions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	query, ok := h.employeeQuery(w, r)
	if !ok {
		return
	}
	summaries, err := h.distribution.Summaries(r.Context(), p, query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDistributions(&buf, summaries); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("distribution_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write export", "error", err)
	}
}
