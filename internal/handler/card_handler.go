package handler

import (
	"net/http"
	"strconv"

	"cardcheck/internal/model"
	"cardcheck/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CardHandler handles card validation HTTP requests.
type CardHandler struct {
	service  service.CardService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCardHandler creates a new card handler.
func NewCardHandler(service service.CardService, logger zerolog.Logger) *CardHandler {
	return &CardHandler{
		service:  service,
		validate: newValidate(),
		logger:   logger.With().Str("handler", "card").Logger(),
	}
}

// Validate handles POST /api/cards/validate requests.
func (h *CardHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if derr := decodeRequest(w, r, h.validate, &req); derr != nil {
		writeError(w, r, http.StatusBadRequest, derr.Code, derr.Message, h.logger)
		return
	}

	resp, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Identify handles POST /api/cards/identify requests.
func (h *CardHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req model.IdentifyRequest
	if derr := decodeRequest(w, r, h.validate, &req); derr != nil {
		writeError(w, r, http.StatusBadRequest, derr.Code, derr.Message, h.logger)
		return
	}

	resp, err := h.service.Identify(r.Context(), req.Number)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Brands handles GET /api/brands requests.
func (h *CardHandler) Brands(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Brands(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Brand handles GET /api/brands/{name} requests.
func (h *CardHandler) Brand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.Brand(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, brand)
}

// GetCheck handles GET /api/checks/{id} requests.
func (h *CardHandler) GetCheck(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid check ID format", h.logger)
		return
	}

	check, err := h.service.GetCheck(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// ListChecks handles GET /api/checks requests.
func (h *CardHandler) ListChecks(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	checks, err := h.service.RecentChecks(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, checks)
}
