package router

import (
	"net/http"

	"cardcheck/internal/handler"
	"cardcheck/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(cardHandler *handler.CardHandler, apiKey string, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cards/validate", cardHandler.Validate).Methods(http.MethodPost)
	api.HandleFunc("/cards/identify", cardHandler.Identify).Methods(http.MethodPost)
	api.HandleFunc("/brands", cardHandler.Brands).Methods(http.MethodGet)
	api.HandleFunc("/brands/{name}", cardHandler.Brand).Methods(http.MethodGet)
	api.HandleFunc("/checks", cardHandler.ListChecks).Methods(http.MethodGet)
	api.HandleFunc("/checks/{id}", cardHandler.GetCheck).Methods(http.MethodGet)

	// Apply middleware in order: CorrelationID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = r
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.CorrelationID(h)

	return h
}
