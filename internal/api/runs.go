package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/routes"
)

type runsHandler struct {
	tracker tracking.Tracker
	logger  *slog.Logger
}

func newRunsHandler(tracker tracking.Tracker, logger *slog.Logger) *runsHandler {
	return &runsHandler{
		tracker: tracker,
		logger:  logger.With("handler", "runs"),
	}
}

func (h *runsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.find},
		},
	}
}

func (h *runsHandler) find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := h.tracker.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, tracking.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}
