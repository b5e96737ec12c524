package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"task-api/internal/service"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewIndexHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"message": "API Gerenciador de Tarefas",
			"version": version,
			"endpoints": map[string]string{
				"tarefas":      "/tarefas",
				"categorias":   "/categorias",
				"estatisticas": "/estatisticas",
			},
		}, http.StatusOK)
	}
}

func NewHealthHandler(db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		now := time.Now().UTC().Format(time.RFC3339)
		if err := db.PingContext(ctx); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			writeJSON(w, map[string]any{"status": "unhealthy", "timestamp": now}, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"status": "healthy", "timestamp": now}, http.StatusOK)
	}
}

func NewStatsHandler(svc *service.StatsService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		stats, err := svc.Compute(ctx)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, stats, http.StatusOK)
	}
}
