package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/routes"
)

// Handler serves the stored dashboard documents and manual syncs.
type Handler struct {
	sync   *Synchronizer
	logger *slog.Logger
}

// NewHandler creates a Handler over sync.
func NewHandler(sync *Synchronizer, logger *slog.Logger) *Handler {
	return &Handler{
		sync:   sync,
		logger: logger.With("handler", "dashboard"),
	}
}

// Routes returns the route group definition for dashboard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/dashboard",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{document}", Handler: h.Document},
			{Method: "POST", Pattern: "/sync", Handler: h.Sync},
		},
	}
}

// Document returns the raw stored JSON of one dashboard document.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sync.Document(r.Context(), r.PathValue("document"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Sync runs every sub-sync and returns the report. A failed sync still
// answers 200; the report carries the error.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sync.SyncAll(r.Context()))
}
