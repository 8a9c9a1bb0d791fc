package models

// User represents a member of the demo chat board.
type User struct {
	ID   string `json:"id"`   // UUID
	Name string `json:"name"`
}

// EntityID returns the storage id for the record.
func (u User) EntityID() string { return u.ID }
