package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/entity"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/metrics"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
)

// CreateUserRequest represents the user creation request.
type CreateUserRequest struct {
	Name string `json:"name"`
}

// DeleteResponse reports the outcome of a single delete.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteManyRequest represents a bulk delete request.
type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

// DeleteManyResponse reports the outcome of a bulk delete.
type DeleteManyResponse struct {
	DeletedCount int      `json:"deletedCount"`
	IDs          []string `json:"ids"`
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.users.EnsureSeed(ctx, h.kv); err != nil {
		h.Internal(w, err)
		return
	}

	cursor, limit := pageQuery(r)
	page, err := h.users.ListPage(ctx, h.kv, cursor, limit)
	if err != nil {
		if errors.Is(err, entity.ErrBadCursor) {
			h.Bad(w, "invalid cursor")
			return
		}
		h.Internal(w, err)
		return
	}

	h.OK(w, page)
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Bad(w, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.Bad(w, "name required")
		return
	}

	user := models.User{ID: uuid.New().String(), Name: name}
	if err := h.users.Create(r.Context(), h.kv, user); err != nil {
		h.Internal(w, err)
		return
	}

	metrics.EntitiesCreated.WithLabelValues("users").Inc()
	h.OK(w, user)
}

// DeleteUser handles DELETE /api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.users.Delete(r.Context(), h.kv, id)
	if err != nil {
		h.Internal(w, err)
		return
	}

	if deleted {
		metrics.EntitiesDeleted.WithLabelValues("users").Inc()
	}
	h.OK(w, DeleteResponse{ID: id, Deleted: deleted})
}

// DeleteManyUsers handles POST /api/users/deleteMany.
func (h *Handler) DeleteManyUsers(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}

	count, err := h.users.DeleteMany(r.Context(), h.kv, ids)
	if err != nil {
		h.Internal(w, err)
		return
	}

	metrics.EntitiesDeleted.WithLabelValues("users").Add(float64(count))
	h.OK(w, DeleteManyResponse{DeletedCount: count, IDs: ids})
}

// decodeIDs parses a bulk delete body and rejects empty id lists.
func (h *Handler) decodeIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req DeleteManyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Bad(w, "invalid JSON body")
		return nil, false
	}

	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		h.Bad(w, "ids required")
		return nil, false
	}
	return ids, true
}
