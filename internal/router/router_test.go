package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cardcheck/internal/card"
	"cardcheck/internal/handler"
	"cardcheck/internal/model"
	"cardcheck/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	clock := card.FixedClock(time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC))
	validator := card.NewValidator(nil, clock, logger)
	svc := service.NewCardService(validator, nil, clock, logger)
	return New(handler.NewCardHandler(svc, logger), testAPIKey, logger)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		apiKey         string
		expectedStatus int
	}{
		{name: "Health without key", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Validate", method: http.MethodPost, path: "/api/cards/validate", body: `{"number":"4242424242424242","cvc":"123","expiryMonth":"12","expiryYear":"30"}`, apiKey: testAPIKey, expectedStatus: http.StatusOK},
		{name: "Validate without key", method: http.MethodPost, path: "/api/cards/validate", body: `{}`, expectedStatus: http.StatusUnauthorized},
		{name: "Validate with GET", method: http.MethodGet, path: "/api/cards/validate", apiKey: testAPIKey, expectedStatus: http.StatusMethodNotAllowed},
		{name: "Identify", method: http.MethodPost, path: "/api/cards/identify", body: `{"number":"37"}`, apiKey: testAPIKey, expectedStatus: http.StatusOK},
		{name: "Brands", method: http.MethodGet, path: "/api/brands", apiKey: testAPIKey, expectedStatus: http.StatusOK},
		{name: "Brand by name", method: http.MethodGet, path: "/api/brands/amex", apiKey: testAPIKey, expectedStatus: http.StatusOK},
		{name: "Unknown brand name", method: http.MethodGet, path: "/api/brands/bankcard", apiKey: testAPIKey, expectedStatus: http.StatusNotFound},
		{name: "Checks when audit disabled", method: http.MethodGet, path: "/api/checks/0b9ef1f4-3a50-4a77-9d59-4a3c1f0d8a11", apiKey: testAPIKey, expectedStatus: http.StatusNotFound},
		{name: "Recent checks when audit disabled", method: http.MethodGet, path: "/api/checks", apiKey: testAPIKey, expectedStatus: http.StatusOK},
		{name: "Unknown route", method: http.MethodGet, path: "/api/unknown", apiKey: testAPIKey, expectedStatus: http.StatusNotFound},
		{name: "Preflight", method: http.MethodOptions, path: "/api/cards/validate", expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
		})
	}
}

func TestRouter_ValidateEndToEnd(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/cards/validate",
		strings.NewReader(`{"number":"3782 822463 10005","cvc":"123","expiryMonth":"13","expiryYear":"30"}`))
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Amex", resp.Brand)
	assert.False(t, resp.Valid)
	assert.Equal(t, card.CVCLengthMismatch|card.ExpiryIsInvalidDate, resp.Flags)
	assert.Equal(t, card.Valid, resp.Fields.Number)
	assert.Equal(t, "378282*****0005", resp.MaskedNumber)
	assert.Nil(t, resp.CheckID)
}
