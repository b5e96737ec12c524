package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"task-api/internal/service"
)

const msgInvalidJSON = "JSON inválido"

// pathID reads the numeric {id} route variable.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func NewListTasksHandler(svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tasks, err := svc.List(ctx, service.TaskQuery{
			Status:     q.Get("status"),
			Priority:   q.Get("prioridade"),
			CategoryID: q.Get("categoria_id"),
		})
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, tasks, http.StatusOK)
	}
}

func NewCreateTaskHandler(svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createTaskIn
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, msgInvalidJSON, http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		task, err := svc.Create(ctx, in.toService())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, task, http.StatusCreated)
	}
}

func NewGetTaskHandler(svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrTaskNotFound.Error(), http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		task, err := svc.Get(ctx, id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, task, http.StatusOK)
	}
}

func NewUpdateTaskHandler(svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrTaskNotFound.Error(), http.StatusNotFound)
			return
		}

		var in patchTaskIn
		keys, err := decodePatch(w, r, &in)
		if err != nil {
			writeError(w, msgInvalidJSON, http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		task, err := svc.Update(ctx, id, in.toService(keys))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, task, http.StatusOK)
	}
}

func NewDeleteTaskHandler(svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrTaskNotFound.Error(), http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"message": "Tarefa deletada com sucesso"}, http.StatusOK)
	}
}
