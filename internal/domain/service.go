package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service is a catalog entry: something a branch sells, priced and timed.
type Service struct {
	ID              uuid.UUID `json:"id"`
	BranchID        uuid.UUID `json:"branch_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	// BufferMinutes is extra non-bookable time after the service before the
	// next slot may start. Zero for most services.
	BufferMinutes   int       `json:"buffer_minutes"`
	Price           Money     `json:"price"`
	Active          bool      `json:"active"`
	RequiresDeposit bool      `json:"requires_deposit"`
	DepositAmount   *Money    `json:"deposit_amount,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
