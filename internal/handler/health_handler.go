package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

// NewHealthHandler reports healthy unconditionally when db is nil, which is
// the case for the in-memory store.
func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Health(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	writeMessage(w, http.StatusOK, "ok")
}
