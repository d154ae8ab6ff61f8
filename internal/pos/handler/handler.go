package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campuscoffee/internal/platform/middleware"
	"campuscoffee/internal/pos/models"
	id "campuscoffee/pkg/domain"
	dErrors "campuscoffee/pkg/domain-errors"
	"campuscoffee/pkg/platform/httputil"
)

// Service defines the POS operations the HTTP layer calls.
type Service interface {
	Create(ctx context.Context, in models.CreatePos) (*models.Pos, error)
	GetByID(ctx context.Context, posID id.PosID) (*models.Pos, error)
	List(ctx context.Context) ([]*models.Pos, error)
	FilterByName(ctx context.Context, name string) (*models.Pos, error)
	Update(ctx context.Context, posID id.PosID, u models.PosUpdate) (*models.Pos, error)
	Clear(ctx context.Context) error
}

// Handler serves the POS REST API.
type Handler struct {
	pos    Service
	logger *slog.Logger
}

// New creates a new POS Handler.
func New(pos Service, logger *slog.Logger) *Handler {
	return &Handler{pos: pos, logger: logger}
}

// Register mounts the public /api/pos routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/pos", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/filter", h.handleFilterByName)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
	})
}

// RegisterAdmin mounts the operational routes behind the admin token.
func (h *Handler) RegisterAdmin(r chi.Router, adminToken string) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(adminToken, h.logger))
		r.Delete("/admin/pos", h.handleClear)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.pos.List(r.Context())
	if err != nil {
		h.writeError(w, r, "list pos", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPosResponses(all))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	posID, err := id.ParsePosID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get pos", err)
		return
	}
	p, err := h.pos.GetByID(r.Context(), posID)
	if err != nil {
		h.writeError(w, r, "get pos", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPosResponse(p))
}

func (h *Handler) handleFilterByName(w http.ResponseWriter, r *http.Request) {
	p, err := h.pos.FilterByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, r, "filter pos by name", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPosResponse(p))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req PosRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, "create pos", err)
		return
	}
	in, err := req.ToCreate()
	if err != nil {
		h.writeError(w, r, "create pos", err)
		return
	}
	p, err := h.pos.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create pos", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPosResponse(p))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	posID, err := id.ParsePosID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "update pos", err)
		return
	}
	var req PosRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, "update pos", err)
		return
	}
	u, err := req.ToUpdate(posID)
	if err != nil {
		h.writeError(w, r, "update pos", err)
		return
	}
	p, err := h.pos.Update(r.Context(), posID, u)
	if err != nil {
		h.writeError(w, r, "update pos", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPosResponse(p))
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.pos.Clear(r.Context()); err != nil {
		h.writeError(w, r, "clear pos", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError logs client faults at warn and everything else at error, then
// renders the error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"operation", op,
		"error", err.Error(),
	}
	if de, ok := dErrors.As(err); ok && httputil.ToHTTPStatus(de.Code) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, "pos request rejected", attrs...)
	} else {
		h.logger.ErrorContext(ctx, "pos request failed", attrs...)
	}
	httputil.WriteError(w, err)
}
