package reports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/pkg/handlers"
	"github.com/JaimeStill/scorecard/pkg/routes"
)

// Handler provides chart and report endpoints for a batch.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reports"),
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/organizations/{org}/batches/{batch}",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/charts", Handler: h.Charts},
			{Method: "GET", Pattern: "/report", Handler: h.Report},
		},
	}
}

// Charts returns a base64 PNG pie chart per perspective.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.PathValue("org"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, batches.ErrInvalidID)
		return
	}

	charts, err := h.sys.Charts(r.Context(), orgID, r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, batches.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]map[records.Perspective]Chart{"charts": charts})
}

// Report streams the batch PDF as an attachment.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.PathValue("org"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, batches.ErrInvalidID)
		return
	}

	batchID := r.PathValue("batch")
	pdf, err := h.sys.Render(r.Context(), orgID, batchID)
	if err != nil {
		handlers.RespondError(w, h.logger, batches.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, "application/pdf", fmt.Sprintf("scorecard-batch-%s.pdf", batchID), pdf)
}
