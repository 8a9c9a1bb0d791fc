package entity

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

// GeneralChat is the id of the built-in demo chat.
const GeneralChat = "00000000-0000-0000-0000-0000000000c1"

// seedChats are the built-in demo chats written on first use.
var seedChats = []models.Chat{
	{
		ID:    GeneralChat,
		Title: "General",
		Messages: []models.Message{
			{
				ID:        "01J00000000000000000SEED01",
				ChatID:    GeneralChat,
				UserID:    seedUsers[0].ID,
				Text:      "Welcome to FinCast chat!",
				Timestamp: 1735689600000,
			},
			{
				ID:        "01J00000000000000000SEED02",
				ChatID:    GeneralChat,
				UserID:    seedUsers[1].ID,
				Text:      "Anyone tried the AAPL forecast yet?",
				Timestamp: 1735689660000,
			},
		},
	},
}

// ChatList is the chats collection plus the message sub-resource.
// Messages live inside the chat record, so sending one is a
// read-modify-write on a single key.
type ChatList struct {
	*List[models.Chat]
	locks keyedLocks
}

// NewChatList creates the chats collection.
func NewChatList() *ChatList {
	return &ChatList{List: NewList("chats", seedChats)}
}

// ListMessages returns the ordered message sequence for a chat, or
// ErrNotFound if the chat does not exist.
func (c *ChatList) ListMessages(ctx context.Context, kv store.KVStore, id string) ([]models.Message, error) {
	chat, err := c.Get(ctx, kv, id)
	if err != nil {
		return nil, err
	}
	if chat.Messages == nil {
		return []models.Message{}, nil
	}
	return chat.Messages, nil
}

// SendMessage appends a message to a chat and persists the updated record.
// The read-append-write is serialized per chat id, so concurrent sends to
// the same chat within this process cannot clobber each other. Across
// processes the whole-record write is still last-write-wins; the store
// contract has no compare-and-swap.
func (c *ChatList) SendMessage(ctx context.Context, kv store.KVStore, chatID, userID, text string) (models.Message, error) {
	unlock := c.locks.lock(chatID)
	defer unlock()

	chat, err := c.Get(ctx, kv, chatID)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        ulid.Make().String(),
		ChatID:    chatID,
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}

	chat.Messages = append(chat.Messages, msg)
	if err := c.Create(ctx, kv, chat); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}
