package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the identity and timestamp columns every persisted record carries.
// Entities embed it rather than extend it.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase assigns a fresh identifier; the ID never changes afterwards.
func NewBase(now time.Time) Base {
	return Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}
