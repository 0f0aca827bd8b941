package batches

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/pkg/handlers"
	"github.com/JaimeStill/scorecard/pkg/routes"
)

// Handler provides HTTP endpoints for batch views and mutations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// UpdateRequest is the body of a batch record update.
type UpdateRequest struct {
	Updates []records.FieldUpdate `json:"updates"`
}

// RenameRequest is the body of a batch rename.
type RenameRequest struct {
	BatchName string `json:"batch_name"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "batches"),
	}
}

// Routes returns the route group definition for batch endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/organizations/{org}/batches",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Dashboard},
			{Method: "DELETE", Pattern: "", Handler: h.DeleteAll},
			{Method: "GET", Pattern: "/{batch}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{batch}", Handler: h.Delete},
			{Method: "GET", Pattern: "/{batch}/summary", Handler: h.Detail},
			{Method: "PUT", Pattern: "/{batch}/records", Handler: h.UpdateRecords},
			{Method: "PUT", Pattern: "/{batch}/name", Handler: h.Rename},
			{Method: "GET", Pattern: "/{batch}/source", Handler: h.Source},
		},
	}
}

// Dashboard returns every batch of the organization, newest first.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	summaries, err := h.sys.Dashboard(r.Context(), orgID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summaries)
}

// Find returns one batch with its classified records.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	summary, err := h.sys.Find(r.Context(), orgID, r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Detail returns per-perspective status totals for one batch.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	detail, err := h.sys.Detail(r.Context(), orgID, r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// UpdateRecords applies field edits to records of one batch in a single transaction.
func (h *Handler) UpdateRecords(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	n, err := h.sys.UpdateRecords(r.Context(), orgID, r.PathValue("batch"), req.Updates)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "updated": n})
}

// Rename sets the name of every record in the batch.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Rename(r.Context(), orgID, r.PathValue("batch"), req.BatchName)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete removes one batch.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	n, err := h.sys.Delete(r.Context(), orgID, r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

// DeleteAll removes every batch of the organization.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	n, err := h.sys.DeleteAll(r.Context(), orgID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": n})
}

// Source downloads the archived upload of a batch.
func (h *Handler) Source(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.organization(w, r)
	if !ok {
		return
	}

	obj, filename, err := h.sys.Source(r.Context(), orgID, r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondAttachment(w, obj.ContentType, filename, data)
}

func (h *Handler) organization(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("org"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
