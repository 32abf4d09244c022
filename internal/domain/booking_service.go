package domain

import (
	"time"

	"github.com/google/uuid"
)

type ServiceItemStatus string

const (
	ServiceItemPending    ServiceItemStatus = "pending"
	ServiceItemInProgress ServiceItemStatus = "in_progress"
	ServiceItemCompleted  ServiceItemStatus = "completed"
	ServiceItemCancelled  ServiceItemStatus = "cancelled"
)

// BookingService is one service line item inside a Booking. Line items have no
// lifecycle outside their owning aggregate.
type BookingService struct {
	ID              uuid.UUID         `json:"id"`
	BookingID       uuid.UUID         `json:"booking_id"`
	ServiceID       uuid.UUID         `json:"service_id"`
	StaffID         *uuid.UUID        `json:"staff_id,omitempty"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Price           Money             `json:"price"`
	Discount        Money             `json:"discount"`
	Status          ServiceItemStatus `json:"status"`
}

func NewBookingService(serviceID uuid.UUID, staffID *uuid.UUID, startTime time.Time, durationMinutes int, price Money) (*BookingService, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	return &BookingService{
		ID:              uuid.New(),
		ServiceID:       serviceID,
		StaffID:         staffID,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		Price:           price,
		Discount:        ZeroMoney(price.Currency()),
		Status:          ServiceItemPending,
	}, nil
}

func (s *BookingService) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

func (s *BookingService) Slot() TimeSlot {
	return TimeSlot{Start: s.StartTime, End: s.EndTime()}
}

func (s *BookingService) FinalPrice() Money {
	final, err := s.Price.Sub(s.Discount)
	if err != nil {
		// Discount currency is fixed to the price currency at construction.
		return s.Price
	}
	return final
}

func (s *BookingService) AssignStaff(staffID uuid.UUID) {
	s.StaffID = &staffID
}

func (s *BookingService) ApplyDiscount(discount Money) error {
	exceeds, err := discount.GreaterThan(s.Price)
	if err != nil {
		return err
	}
	if exceeds {
		return ErrInvalidDiscount
	}
	s.Discount = discount
	return nil
}

func (s *BookingService) Start() error {
	if s.Status != ServiceItemPending {
		return ErrInvalidTransition
	}
	s.Status = ServiceItemInProgress
	return nil
}

func (s *BookingService) Complete() error {
	if s.Status != ServiceItemInProgress {
		return ErrInvalidTransition
	}
	s.Status = ServiceItemCompleted
	return nil
}

func (s *BookingService) Cancel() error {
	if s.Status == ServiceItemCompleted {
		return ErrInvalidTransition
	}
	s.Status = ServiceItemCancelled
	return nil
}
