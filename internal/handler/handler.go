package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
	"github.com/workforce-api/internal/middleware"
	"github.com/workforce-api/internal/service"
)

// Handler serves the workforce API
type Handler struct {
	hierarchy    service.HierarchyService
	distribution service.DistributionService
	activities   service.ActivityService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewHandler creates a handler over the given services
func NewHandler(
	hierarchy service.HierarchyService,
	distribution service.DistributionService,
	activities service.ActivityService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hierarchy:    hierarchy,
		distribution: distribution,
		activities:   activities,
		validator:    validator.New(),
		logger:       logger,
	}
}

// principal returns the authenticated principal or answers 401
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*service.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		h.respondError(w, r, http.StatusUnauthorized, "authentication required", "")
	}
	return p, ok
}

// decode reads a JSON body into dst and validates it, answering 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return h.validate(w, r, dst)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := h.validator.Struct(v); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "validation error", err.Error())
		return false
	}
	return true
}

// queryInt64 parses an optional positive integer query parameter
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *Handler) employeeQuery(w http.ResponseWriter, r *http.Request) (*dto.EmployeeQuery, bool) {
	areaID, err := queryInt64(r, "area_id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid area_id", err.Error())
		return nil, false
	}
	q := &dto.EmployeeQuery{
		Unit:       strings.TrimSpace(r.URL.Query().Get("unit")),
		AreaID:     areaID,
		CostCenter: strings.TrimSpace(r.URL.Query().Get("cost_center")),
	}
	return q, h.validate(w, r, q)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.respondError(w, r, http.StatusNotFound, "employee not found", "")
	case errors.Is(err, domain.ErrAreaNotFound):
		h.respondError(w, r, http.StatusNotFound, "area not found", "")
	case errors.Is(err, domain.ErrActivityNotFound):
		h.respondError(w, r, http.StatusNotFound, "activity not found", "")
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrReadOnly),
		errors.Is(err, domain.ErrAdminOnly),
		errors.Is(err, domain.ErrInactiveUser):
		h.respondError(w, r, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, domain.ErrNoValidRows):
		h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.Is(err, domain.ErrEmptyEmployeeID):
		h.respondError(w, r, http.StatusBadRequest, err.Error(), "")
	default:
		h.logger.Error("internal error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.respondError(w, r, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, errMsg, details string) {
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	h.respondJSON(w, r, status, resp)
}
