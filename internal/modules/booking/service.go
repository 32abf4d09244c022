package booking

import (
	"context"
	"errors"
	"time"

	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateBookingCommand is the validated input for booking creation. Items are
// scheduled back-to-back in the order given, never reordered.
type CreateBookingCommand struct {
	BranchID        uuid.UUID
	CustomerID      uuid.UUID
	ScheduledAt     time.Time
	Source          domain.BookingSource
	AutoAssignStaff bool
	Items           []CreateBookingItem
}

type CreateBookingItem struct {
	ServiceID uuid.UUID
	StaffID   *uuid.UUID
}

// Conflict reports one existing booking overlapping a candidate interval.
type Conflict struct {
	BookingID uuid.UUID       `json:"booking_id"`
	Slot      domain.TimeSlot `json:"slot"`
}

// PriceQuote is the pricing breakdown for a set of services.
type PriceQuote struct {
	Subtotal         domain.Money `json:"subtotal"`
	DiscountAmount   domain.Money `json:"discount_amount"`
	Total            domain.Money `json:"total"`
	DepositRequired  domain.Money `json:"deposit_required"`
	RemainingBalance domain.Money `json:"remaining_balance"`
}

// Service orchestrates booking creation, rescheduling, cancellation, conflict
// detection and pricing. It holds no state of its own; everything durable
// lives behind the repositories.
type Service struct {
	bookings     BookingRepository
	branches     BranchRepository
	catalog      ServiceRepository
	staff        StaffRepository
	availability AvailabilityService
	events       EventPublisher
	discount     DiscountStrategy
}

func NewService(
	bookings BookingRepository,
	branches BranchRepository,
	catalog ServiceRepository,
	staff StaffRepository,
	avail AvailabilityService,
	events EventPublisher,
	discount DiscountStrategy,
) *Service {
	if discount == nil {
		discount = NoDiscount
	}
	return &Service{
		bookings:     bookings,
		branches:     branches,
		catalog:      catalog,
		staff:        staff,
		availability: avail,
		events:       events,
		discount:     discount,
	}
}

// CreateBooking validates branch, services, operating hours and advance
// notice, lays the line items back-to-back from the scheduled time, validates
// every explicit staff assignment, and persists the aggregate. The overlap
// check runs again inside the persistence transaction; a concurrent writer
// losing that race gets STAFF_NOT_AVAILABLE and can retry with fresh data.
func (s *Service) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*domain.Booking, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrNoServices
	}

	branch, err := s.branches.GetByID(ctx, cmd.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || !branch.Active {
		return nil, domain.ErrBranchNotAvailable
	}
	// Interpret the requested time in branch wall-clock terms, whatever UTC
	// offset the client sent. Day bucketing downstream depends on it.
	cmd.ScheduledAt = cmd.ScheduledAt.In(branch.Location())

	services := make([]*domain.Service, 0, len(cmd.Items))
	totalMinutes := 0
	for _, item := range cmd.Items {
		svc, err := s.catalog.GetByID(ctx, item.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil || !svc.Active {
			return nil, domain.ErrInvalidServices
		}
		services = append(services, svc)
		totalMinutes += svc.DurationMinutes
	}

	if !branch.IsWithinOperatingHours(cmd.ScheduledAt, time.Duration(totalMinutes)*time.Minute) {
		return nil, domain.ErrOutsideHours
	}

	now := time.Now()
	if cmd.ScheduledAt.Sub(now) < branch.MinBookingNotice() {
		return nil, domain.ErrInsufficientNotice
	}

	b, err := domain.NewBooking(cmd.BranchID, cmd.CustomerID, cmd.ScheduledAt, cmd.Source, branch.Currency, now)
	if err != nil {
		return nil, err
	}

	staffIDs := make([]*uuid.UUID, len(cmd.Items))
	for i, item := range cmd.Items {
		staffIDs[i] = item.StaffID
	}
	if cmd.AutoAssignStaff {
		if err := s.fillAutoAssignments(ctx, cmd, services, staffIDs); err != nil {
			return nil, err
		}
	}

	// Line items run strictly back-to-back in request order.
	cursor := cmd.ScheduledAt
	for i, svc := range services {
		item, err := domain.NewBookingService(svc.ID, staffIDs[i], cursor, svc.DurationMinutes, svc.Price)
		if err != nil {
			return nil, err
		}
		if err := b.AddService(item); err != nil {
			return nil, err
		}
		cursor = cursor.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	}

	for i, item := range b.Services {
		if item.StaffID == nil {
			continue
		}
		if err := s.validateStaffAssignment(ctx, *item.StaffID, services[i], item.StartTime); err != nil {
			return nil, err
		}
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}

	if s.events != nil {
		s.events.Publish(ctx, b.Created())
	}
	return b, nil
}

func (s *Service) fillAutoAssignments(ctx context.Context, cmd CreateBookingCommand, services []*domain.Service, staffIDs []*uuid.UUID) error {
	unassigned := make([]uuid.UUID, 0, len(services))
	for i, svc := range services {
		if staffIDs[i] == nil {
			unassigned = append(unassigned, svc.ID)
		}
	}
	if len(unassigned) == 0 {
		return nil
	}

	assignments, err := s.availability.FindOptimalStaffAssignment(ctx, unassigned, cmd.ScheduledAt, cmd.BranchID)
	if err != nil {
		return err
	}

	byService := make(map[uuid.UUID]uuid.UUID, len(assignments))
	for _, a := range assignments {
		byService[a.ServiceID] = a.StaffID
	}
	for i, svc := range services {
		if staffIDs[i] != nil {
			continue
		}
		if staffID, ok := byService[svc.ID]; ok {
			id := staffID
			staffIDs[i] = &id
		}
	}
	return nil
}

// validateStaffAssignment checks existence, capability and availability for
// one explicit staff assignment. Buffer minutes extend the availability
// window so the post-service gap stays free.
func (s *Service) validateStaffAssignment(ctx context.Context, staffID uuid.UUID, svc *domain.Service, start time.Time) error {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return domain.ErrInvalidAssignment
	}
	if !staff.CanPerformService(svc.Category) {
		return domain.ErrInvalidStaff
	}

	free, err := s.availability.CheckStaffAvailability(ctx, staffID, start, svc.DurationMinutes+svc.BufferMinutes)
	if err != nil {
		return err
	}
	if !free {
		return domain.ErrStaffNotAvailable
	}
	return nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	return s.bookings.FindByCustomerAndDateRange(ctx, customerID, from, to)
}

func (s *Service) ConfirmBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	ev, err := b.Confirm(time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	if s.events != nil {
		s.events.Publish(ctx, ev)
	}
	return b, nil
}

func (s *Service) StartBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Start(time.Now()); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	return b, nil
}

func (s *Service) CompleteBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Complete(time.Now()); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	return b, nil
}

// RescheduleBooking moves a confirmed booking. The new time must exactly
// match one of the open slots for the booking's total duration.
func (s *Service) RescheduleBooking(ctx context.Context, id uuid.UUID, newTime time.Time) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !b.CanReschedule(now) {
		return nil, domain.ErrRescheduleNotAllowed
	}

	branch, err := s.branches.GetByID(ctx, b.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrBranchNotAvailable
	}
	newTime = newTime.In(branch.Location())

	slots, err := s.availability.GetAvailableTimeSlots(ctx, b.BranchID, newTime, b.DurationMinutes)
	if err != nil {
		return nil, err
	}
	matched := false
	for _, slot := range slots {
		if slot.Start.Equal(newTime) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, domain.ErrTimeSlotUnavailable
	}

	if err := b.Reschedule(newTime, now); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	return b, nil
}

func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !b.CanCancel(now) {
		return nil, domain.ErrCancellationNotAllowed
	}

	ev, err := b.Cancel(reason, now)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	if s.events != nil {
		s.events.Publish(ctx, ev)
	}
	return b, nil
}

func (s *Service) PayDeposit(ctx context.Context, id uuid.UUID, amount domain.Money) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.PayDeposit(amount); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	return b, nil
}

// CheckBookingConflicts reports every same-day active booking of the branch
// whose interval overlaps the candidate under the half-open test. Touching
// intervals are not conflicts.
func (s *Service) CheckBookingConflicts(ctx context.Context, branchID uuid.UUID, scheduledAt time.Time, durationMinutes int, excludeID *uuid.UUID) ([]Conflict, error) {
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrBranchNotAvailable
	}
	scheduledAt = scheduledAt.In(branch.Location())

	existing, err := s.bookings.FindByBranchAndDate(ctx, branchID, scheduledAt)
	if err != nil {
		return nil, err
	}

	candidate := domain.SlotAt(scheduledAt, durationMinutes)
	conflicts := []Conflict{}
	for i := range existing {
		other := &existing[i]
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if other.Status == domain.StatusCancelled || other.Status == domain.StatusNoShow {
			continue
		}
		if candidate.Overlaps(other.Slot()) {
			conflicts = append(conflicts, Conflict{BookingID: other.ID, Slot: other.Slot()})
		}
	}
	return conflicts, nil
}

// CalculateBookingPrice sums service prices and required deposits and applies
// the discount strategy.
func (s *Service) CalculateBookingPrice(ctx context.Context, customerID uuid.UUID, serviceIDs []uuid.UUID) (*PriceQuote, error) {
	if len(serviceIDs) == 0 {
		return nil, domain.ErrNoServices
	}

	var subtotal, depositRequired domain.Money
	for i, id := range serviceIDs {
		svc, err := s.catalog.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if svc == nil || !svc.Active {
			return nil, domain.ErrInvalidServices
		}

		if i == 0 {
			subtotal = domain.ZeroMoney(svc.Price.Currency())
			depositRequired = domain.ZeroMoney(svc.Price.Currency())
		}
		subtotal, err = subtotal.Add(svc.Price)
		if err != nil {
			return nil, err
		}
		if svc.RequiresDeposit && svc.DepositAmount != nil {
			depositRequired, err = depositRequired.Add(*svc.DepositAmount)
			if err != nil {
				return nil, err
			}
		}
	}

	discount, err := s.discount.DiscountFor(ctx, customerID, subtotal)
	if err != nil {
		return nil, err
	}
	total, err := subtotal.Sub(discount)
	if err != nil {
		return nil, err
	}
	remaining, err := total.Sub(depositRequired)
	if err != nil {
		return nil, err
	}

	return &PriceQuote{
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		Total:            total,
		DepositRequired:  depositRequired,
		RemainingBalance: remaining,
	}, nil
}

// MarkNoShow flags a confirmed booking whose time has passed. Driven by the
// sweep command, not by customer-facing handlers.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.MarkNoShow(time.Now()); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, translatePersistenceErr(err)
	}
	return b, nil
}

// translatePersistenceErr maps write-time double-booking failures onto the
// domain error the caller retries on. Both the transactional re-check and the
// Postgres exclusion constraint funnel through here.
func translatePersistenceErr(err error) error {
	if errors.Is(err, repository.ErrStaffSlotTaken) {
		return domain.ErrStaffNotAvailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if (pgErr.Code == "23505" || pgErr.Code == "23P01") && pgErr.ConstraintName == "idx_no_double_booking" {
			return domain.ErrStaffNotAvailable
		}
	}
	return err
}
