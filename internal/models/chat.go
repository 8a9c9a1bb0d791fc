package models

// Chat is a chat board. Messages live inside the chat record itself,
// so the whole conversation is one key in the store.
type Chat struct {
	ID       string    `json:"id"` // UUID
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// EntityID returns the storage id for the record.
func (c Chat) EntityID() string { return c.ID }

// Message represents a single chat message.
type Message struct {
	ID        string `json:"id"`     // ULID, time-ordered
	ChatID    string `json:"chatId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"` // Unix ms
}
