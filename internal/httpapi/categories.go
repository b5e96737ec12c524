package httpapi

import (
	"context"
	"net/http"
	"time"

	"task-api/internal/service"
)

func NewListCategoriesHandler(svc *service.CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		categories, err := svc.List(ctx)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, categories, http.StatusOK)
	}
}

func NewCreateCategoryHandler(svc *service.CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createCategoryIn
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, msgInvalidJSON, http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		category, err := svc.Create(ctx, in.toService())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, category, http.StatusCreated)
	}
}

func NewGetCategoryHandler(svc *service.CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrCategoryNotFound.Error(), http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		category, err := svc.Get(ctx, id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, category, http.StatusOK)
	}
}

func NewUpdateCategoryHandler(svc *service.CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrCategoryNotFound.Error(), http.StatusNotFound)
			return
		}

		var in patchCategoryIn
		keys, err := decodePatch(w, r, &in)
		if err != nil {
			writeError(w, msgInvalidJSON, http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		category, err := svc.Update(ctx, id, in.toService(keys))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, category, http.StatusOK)
	}
}

func NewDeleteCategoryHandler(svc *service.CategoryService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeError(w, service.ErrCategoryNotFound.Error(), http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"message": "Categoria deletada com sucesso"}, http.StatusOK)
	}
}
