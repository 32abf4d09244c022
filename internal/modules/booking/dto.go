package booking

import (
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	BranchID        uuid.UUID                  `json:"branch_id" binding:"required"`
	ScheduledAt     time.Time                  `json:"scheduled_at" binding:"required"`
	Source          string                     `json:"source"`
	AutoAssignStaff bool                       `json:"auto_assign_staff"`
	Items           []CreateBookingItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateBookingItemRequest struct {
	ServiceID uuid.UUID  `json:"service_id" binding:"required"`
	StaffID   *uuid.UUID `json:"staff_id"`
}

type RescheduleRequest struct {
	NewTime time.Time `json:"new_time" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DepositRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required,len=3"`
}

type QuoteRequest struct {
	ServiceIDs []uuid.UUID `json:"service_ids" binding:"required,min=1"`
}

type ConflictsQuery struct {
	ScheduledAt time.Time  `form:"scheduled_at" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Duration    int        `form:"duration" binding:"required,gt=0"`
	ExcludeID   *uuid.UUID `form:"exclude_id"`
}

type ListQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func parseMoney(amount, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.NewMoney(d, currency)
}

func (r CreateBookingRequest) toCommand(customerID uuid.UUID) CreateBookingCommand {
	source := domain.BookingSource(r.Source)
	if source == "" {
		source = domain.SourceOnline
	}
	items := make([]CreateBookingItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = CreateBookingItem{ServiceID: it.ServiceID, StaffID: it.StaffID}
	}
	return CreateBookingCommand{
		BranchID:        r.BranchID,
		CustomerID:      customerID,
		ScheduledAt:     r.ScheduledAt,
		Source:          source,
		AutoAssignStaff: r.AutoAssignStaff,
		Items:           items,
	}
}
