package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"task-api/internal/service"
)

// writeErr maps service errors onto status codes and response bodies.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	log := zerolog.Ctx(r.Context())

	var inUse *service.CategoryInUseError
	var storeErr *service.StoreError

	switch {
	case errors.As(err, &inUse):
		writeJSON(w, map[string]any{
			"erro":               inUse.Error(),
			"tarefas_associadas": inUse.Tasks,
		}, http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, service.ErrCategoryNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("request timed out")
		writeError(w, "Tempo limite excedido", http.StatusServiceUnavailable)
	case errors.As(err, &storeErr):
		log.Error().Err(storeErr.Err).Msg(storeErr.Msg)
		writeJSON(w, map[string]any{
			"erro":     storeErr.Msg,
			"detalhes": storeErr.Detail(),
		}, http.StatusInternalServerError)
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeError(w, "Erro interno", http.StatusInternalServerError)
	}
}
