package validation

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/routes"
)

// Handler exposes the current validation result, its report, and summary.
type Handler struct {
	store  *StorageStore
	logger *slog.Logger
}

// NewHandler creates a Handler reading from store.
func NewHandler(store *StorageStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("handler", "validation"),
	}
}

// Routes returns the route group definition for validation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/validation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Result},
			{Method: "GET", Pattern: "/report", Handler: h.Report},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
		},
	}
}

// Result returns the persisted validation result.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.Read(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Report streams the HTML report.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	body, err := h.store.Report(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("report stream interrupted", "error", err)
	}
}

// Summary returns the compact result summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := Summarize(r.Context(), h.store)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sum)
}
