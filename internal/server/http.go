package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

// HTTPOptions configures NewHTTPHandler.
type HTTPOptions struct {
	// AuthToken protects the admin routes. Empty disables auth.
	AuthToken string
	// AllowedOrigin is sent as Access-Control-Allow-Origin on the public
	// resolve route. Empty disables CORS headers.
	AllowedOrigin string
}

// resolveResponse is the body of a successful GET /{code}.
type resolveResponse struct {
	Code           string           `json:"code"`
	Data           *model.Portfolio `json:"data"`
	AvailableViews int              `json:"available_views"`
}

// putPortfolioRequest is the body of PUT /v1/portfolios/{code}.
type putPortfolioRequest struct {
	Portfolio *model.Portfolio `json:"portfolio"`
	ViewLimit int              `json:"view_limit"`
}

// NewHTTPHandler returns an http.Handler with all routes registered.
// GET /{code} and GET /v1/health are public; everything under /v1 else
// requires the admin token when one is configured.
func (s *PortfolioServer) NewHTTPHandler(opts HTTPOptions) http.Handler {
	admin := func(h http.HandlerFunc) http.Handler { return AuthMiddleware(opts.AuthToken, h) }
	public := CORSMiddleware(opts.AllowedOrigin, http.HandlerFunc(s.handleResolve))

	mux := http.NewServeMux()
	mux.Handle("GET /{code}", public)
	mux.Handle("OPTIONS /{code}", public)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.Handle("GET /v1/portfolios", admin(s.handleListPortfolios))
	mux.Handle("PUT /v1/portfolios/{code}", admin(s.handlePutPortfolio))
	mux.Handle("DELETE /v1/portfolios/{code}", admin(s.handleDeletePortfolio))
	mux.Handle("GET /v1/events/stream", admin(s.handleEventStream))
	return RecoveryMiddleware(LoggingMiddleware(mux))
}

// handleResolve handles GET /{code}.
func (s *PortfolioServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Resolve(r.Context(), r.PathValue("code"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Code not found")
		return
	}
	if err != nil {
		slog.Error("resolve portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Code:           rec.Code,
		Data:           rec.Portfolio,
		AvailableViews: rec.AvailableViews(),
	})
}

// handleHealth handles GET /v1/health.
func (s *PortfolioServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListPortfolios handles GET /v1/portfolios.
func (s *PortfolioServer) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	list, err := s.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list portfolios")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"portfolios": list, "total": len(list)})
}

// handlePutPortfolio handles PUT /v1/portfolios/{code}.
func (s *PortfolioServer) handlePutPortfolio(w http.ResponseWriter, r *http.Request) {
	var req putPortfolioRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := &model.PortfolioRecord{
		Code:      r.PathValue("code"),
		Portfolio: req.Portfolio,
		ViewLimit: req.ViewLimit,
	}
	if err := s.Put(r.Context(), rec); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store portfolio")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeletePortfolio handles DELETE /v1/portfolios/{code}.
func (s *PortfolioServer) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	err := s.Delete(r.Context(), r.PathValue("code"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Code not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete portfolio")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
