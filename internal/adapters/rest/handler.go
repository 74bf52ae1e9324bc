// Package rest provides the HTTP interface for the pitch analysis service.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/services"
)

// DefaultMaxUploadBytes caps uploaded recordings at 50 MB.
const DefaultMaxUploadBytes = 50 << 20

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc            *services.PitchService
	router         *http.ServeMux
	maxUploadBytes int64
	userName       string
	userJoinDate   string
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.PitchService, maxUploadBytes int64, userName, userJoinDate string) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	h := &Handler{
		svc:            svc,
		router:         http.NewServeMux(),
		maxUploadBytes: maxUploadBytes,
		userName:       userName,
		userJoinDate:   userJoinDate,
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface, applying the middleware
// chain before the router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withRequestID(withCORS(h.router)).ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /api/pitch/upload", h.UploadPitch)
	h.router.HandleFunc("GET /api/dashboard", h.Dashboard)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRequestID attaches a correlation identifier to every response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// withCORS mirrors the permissive policy the frontend expects.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
