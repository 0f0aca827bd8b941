package records

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/pkg/handlers"
	"github.com/JaimeStill/scorecard/pkg/pagination"
	"github.com/JaimeStill/scorecard/pkg/routes"
)

// Handler provides HTTP endpoints for reading an organization's records.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "records"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for record endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/organizations/{org}",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/entries", Handler: h.Entries},
			{Method: "GET", Pattern: "/records", Handler: h.Search},
		},
	}
}

// Entries returns every record of the organization in export shape, grouped by perspective.
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	entries, err := h.sys.Entries(r.Context(), orgID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// Search returns a page of the organization's records filtered by query parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	if filters.Perspective != nil {
		p, err := ParsePerspective(*filters.Perspective)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		slug := string(p)
		filters.Perspective = &slug
	}

	result, err := h.sys.Search(r.Context(), orgID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) organization(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("org"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
