package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/entity"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/predict"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	kv        store.KVStore
	users     *entity.List[models.User]
	chats     *entity.ChatList
	predictor *predict.Client
	logger    zerolog.Logger
}

// NewHandler creates a new Handler with the given store and predictor.
func NewHandler(logger zerolog.Logger, kv store.KVStore, predictor *predict.Client) *Handler {
	return &Handler{
		kv:        kv,
		users:     entity.NewUserList(),
		chats:     entity.NewChatList(),
		predictor: predictor,
		logger:    logger,
	}
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// OK sends a success envelope.
func (h *Handler) OK(w http.ResponseWriter, data interface{}) {
	h.JSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Bad sends a 400 failure envelope.
func (h *Handler) Bad(w http.ResponseWriter, message string) {
	h.JSON(w, http.StatusBadRequest, envelope{Success: false, Error: message})
}

// NotFound sends a 404 failure envelope.
func (h *Handler) NotFound(w http.ResponseWriter, message string) {
	h.JSON(w, http.StatusNotFound, envelope{Success: false, Error: message})
}

// Internal logs err and sends a generic 500 failure envelope.
func (h *Handler) Internal(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("internal error")
	h.JSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal error"})
}

// pageQuery extracts the cursor and limit query parameters.
// A supplied but unparseable limit clamps to 1; absent means the default.
func pageQuery(r *http.Request) (cursor string, limit int) {
	q := r.URL.Query()
	cursor = q.Get("cursor")
	if lq := q.Get("limit"); lq != "" {
		limit, _ = strconv.Atoi(lq)
		if limit < 1 {
			limit = 1
		}
	}
	return cursor, limit
}
