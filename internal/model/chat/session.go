package chat

import "time"

// Session captures a conversation thread between a visitor and one persona.
type Session struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	UserID    *string   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
