package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/opstack-labs/platform-sim/internal/tools"
)

// Handler serves the tool surface over HTTP. Every failure path produces the
// uniform single-field error shape; nothing here faults the process.
type Handler struct {
	logger   *slog.Logger
	registry *tools.Registry
}

// NewRouter wires the tool registry into the HTTP route table.
func NewRouter(registry *tools.Registry, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, registry: registry}

	router := mux.NewRouter()
	router.Use(h.recoverMiddleware)
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/tools", h.listTools).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tools/{name}", h.callTool).Methods(http.MethodPost)

	return router
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "platform-sim"})
}

func (h *Handler) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.registry.List()})
}

func (h *Handler) callTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	args := map[string]any{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body failed")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
	}

	result, err := h.registry.Call(r.Context(), name, args)
	if err != nil {
		status := http.StatusBadRequest
		if strings.HasPrefix(err.Error(), "unknown tool") {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// recoverMiddleware folds panics into the uniform error shape.
func (h *Handler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("handler panic",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Too late to change the status if encoding fails; the connection is gone.
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
