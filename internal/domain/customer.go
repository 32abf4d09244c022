package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer lives independently of any booking lifecycle.
type Customer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Tags         []string  `json:"tags,omitempty"`
	VIP          bool      `json:"vip"`
	Preferences  string    `json:"preferences,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
