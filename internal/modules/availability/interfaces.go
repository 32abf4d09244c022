package availability

import (
	"context"
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
)

// BookingReader is the slice of the booking repository the slot computation
// needs: the booked intervals of one staff member for a day.
type BookingReader interface {
	FindStaffBookedSlots(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.TimeSlot, error)
}

type StaffReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.Staff, error)
	FindAvailableStaff(ctx context.Context, branchID uuid.UUID, start time.Time, durationMinutes int) ([]domain.Staff, error)
	GetShifts(ctx context.Context, staffID uuid.UUID) ([]domain.StaffShift, error)
}

type BranchReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}
