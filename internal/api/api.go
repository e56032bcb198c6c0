// Package api assembles responses: each route checks the rate limit, then the
// response cache, and only on a miss loads, enriches and filters the data
// before storing the rendered payload.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JMousqueton/api.ransomware.live/internal/cache"
	"github.com/JMousqueton/api.ransomware.live/internal/enrich"
	"github.com/JMousqueton/api.ransomware.live/internal/source"
	"github.com/JMousqueton/api.ransomware.live/pkg/config"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

// API serves the read-only query surface over the datasets.
type API struct {
	cfg      *config.Config
	loader   source.Loader
	enricher *enrich.Enricher
	cache    cache.Store
	logger   *slog.Logger
}

// New creates the API from its collaborators.
func New(cfg *config.Config, loader source.Loader, enricher *enrich.Enricher, store cache.Store, logger *slog.Logger) *API {
	return &API{
		cfg:      cfg,
		loader:   loader,
		enricher: enricher,
		cache:    store,
		logger:   logger.With("component", "api"),
	}
}

// respond is the shared cache-through path. On a hit the stored payload is
// written verbatim; on a miss compute runs once for this request, the
// rendered bytes are stored, then written. Concurrent misses may each
// compute; last write wins.
func (a *API) respond(w http.ResponseWriter, r *http.Request, route string, params []string, compute func() (any, error)) {
	key := cache.Key(route, params...)

	if payload, ok := a.cache.Get(r.Context(), key); ok {
		a.writePayload(w, http.StatusOK, payload)
		return
	}

	result, err := compute()
	if err != nil {
		a.writeError(w, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		a.writeError(w, apperrors.Wrap(err, apperrors.CodeInternalError, "encode response"))
		return
	}

	a.cache.Set(r.Context(), key, payload, a.cfg.CacheTTL)
	a.writePayload(w, http.StatusOK, payload)
}

func (a *API) writePayload(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func (a *API) writePayloadJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := apperrors.GetHTTPStatus(err)
	message := "internal server error"

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
