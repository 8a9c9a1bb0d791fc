package entity

import "github.com/sattvadev/fincast-ai-stock-predictor/internal/models"

// seedUsers are the built-in demo users written on first use.
var seedUsers = []models.User{
	{ID: "00000000-0000-0000-0000-0000000000a1", Name: "Alice"},
	{ID: "00000000-0000-0000-0000-0000000000a2", Name: "Bob"},
	{ID: "00000000-0000-0000-0000-0000000000a3", Name: "Carol"},
}

// NewUserList creates the users collection.
func NewUserList() *List[models.User] {
	return NewList("users", seedUsers)
}
