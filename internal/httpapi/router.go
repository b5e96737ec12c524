package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"task-api/internal/service"
)

const Version = "1.0"

// Deps is everything the router needs.
type Deps struct {
	Log        zerolog.Logger
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Stats      *service.StatsService
	DB         Pinger
	Timeout    time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, "Recurso não encontrado", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, "Método não permitido", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/", NewIndexHandler(Version)).Methods(http.MethodGet)
	r.HandleFunc("/health", NewHealthHandler(d.DB, d.Timeout)).Methods(http.MethodGet)

	r.HandleFunc("/tarefas", NewListTasksHandler(d.Tasks, d.Timeout)).Methods(http.MethodGet)
	r.HandleFunc("/tarefas", NewCreateTaskHandler(d.Tasks, d.Timeout)).Methods(http.MethodPost)
	r.HandleFunc("/tarefas/{id:[0-9]+}", NewGetTaskHandler(d.Tasks, d.Timeout)).Methods(http.MethodGet)
	r.HandleFunc("/tarefas/{id:[0-9]+}", NewUpdateTaskHandler(d.Tasks, d.Timeout)).Methods(http.MethodPut)
	r.HandleFunc("/tarefas/{id:[0-9]+}", NewDeleteTaskHandler(d.Tasks, d.Timeout)).Methods(http.MethodDelete)

	r.HandleFunc("/categorias", NewListCategoriesHandler(d.Categories, d.Timeout)).Methods(http.MethodGet)
	r.HandleFunc("/categorias", NewCreateCategoryHandler(d.Categories, d.Timeout)).Methods(http.MethodPost)
	r.HandleFunc("/categorias/{id:[0-9]+}", NewGetCategoryHandler(d.Categories, d.Timeout)).Methods(http.MethodGet)
	r.HandleFunc("/categorias/{id:[0-9]+}", NewUpdateCategoryHandler(d.Categories, d.Timeout)).Methods(http.MethodPut)
	r.HandleFunc("/categorias/{id:[0-9]+}", NewDeleteCategoryHandler(d.Categories, d.Timeout)).Methods(http.MethodDelete)

	r.HandleFunc("/estatisticas", NewStatsHandler(d.Stats, d.Timeout)).Methods(http.MethodGet)

	return RequestID(Logging(d.Log)(r))
}
