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

// CreateChatRequest represents the chat creation request.
type CreateChatRequest struct {
	Title string `json:"title"`
}

// ChatSummary is the chat creation response (messages are not echoed).
type ChatSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SendMessageRequest represents the message creation request.
type SendMessageRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// ListChats handles GET /api/chats.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.chats.EnsureSeed(ctx, h.kv); err != nil {
		h.Internal(w, err)
		return
	}

	cursor, limit := pageQuery(r)
	page, err := h.chats.ListPage(ctx, h.kv, cursor, limit)
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

// CreateChat handles POST /api/chats.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Bad(w, "invalid JSON body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		h.Bad(w, "title required")
		return
	}

	chat := models.Chat{ID: uuid.New().String(), Title: title, Messages: []models.Message{}}
	if err := h.chats.Create(r.Context(), h.kv, chat); err != nil {
		h.Internal(w, err)
		return
	}

	metrics.EntitiesCreated.WithLabelValues("chats").Inc()
	h.OK(w, ChatSummary{ID: chat.ID, Title: chat.Title})
}

// DeleteChat handles DELETE /api/chats/{id}.
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.chats.Delete(r.Context(), h.kv, id)
	if err != nil {
		h.Internal(w, err)
		return
	}

	if deleted {
		metrics.EntitiesDeleted.WithLabelValues("chats").Inc()
	}
	h.OK(w, DeleteResponse{ID: id, Deleted: deleted})
}

// DeleteManyChats handles POST /api/chats/deleteMany.
func (h *Handler) DeleteManyChats(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.decodeIDs(w, r)
	if !ok {
		return
	}

	count, err := h.chats.DeleteMany(r.Context(), h.kv, ids)
	if err != nil {
		h.Internal(w, err)
		return
	}

	metrics.EntitiesDeleted.WithLabelValues("chats").Add(float64(count))
	h.OK(w, DeleteManyResponse{DeletedCount: count, IDs: ids})
}

// ListMessages handles GET /api/chats/{chatID}/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	messages, err := h.chats.ListMessages(r.Context(), h.kv, chatID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			h.NotFound(w, "chat not found")
			return
		}
		h.Internal(w, err)
		return
	}

	h.OK(w, messages)
}

// SendMessage handles POST /api/chats/{chatID}/messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Bad(w, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if req.UserID == "" || text == "" {
		h.Bad(w, "userId and text required")
		return
	}

	msg, err := h.chats.SendMessage(r.Context(), h.kv, chatID, req.UserID, text)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			h.NotFound(w, "chat not found")
			return
		}
		h.Internal(w, err)
		return
	}

	metrics.MessagesSent.Inc()
	h.OK(w, msg)
}
