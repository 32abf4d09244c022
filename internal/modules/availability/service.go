package availability

import (
	"context"
	"errors"
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrStaffNotFound  = errors.New("staff not found")
)

// StaffAssignment is one suggested staff pick for a requested service.
type StaffAssignment struct {
	ServiceID  uuid.UUID `json:"service_id"`
	StaffID    uuid.UUID `json:"staff_id"`
	Confidence float64   `json:"confidence"`
}

// Service computes the bookable calendar from branch hours, staff shifts and
// existing bookings. All slot generation is deterministic: identical inputs
// always yield identical slots.
type Service struct {
	bookings BookingReader
	staff    StaffReader
	branches BranchReader
	services ServiceReader
}

func NewService(bookings BookingReader, staff StaffReader, branches BranchReader, services ServiceReader) *Service {
	return &Service{
		bookings: bookings,
		staff:    staff,
		branches: branches,
		services: services,
	}
}

// CheckStaffAvailability reports whether the staff member is free for the
// whole of [start, start+duration): on shift that day and clear of every
// already-booked interval under the half-open overlap test.
func (s *Service) CheckStaffAvailability(ctx context.Context, staffID uuid.UUID, start time.Time, durationMinutes int) (bool, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return false, err
	}
	if staff == nil || !staff.Active {
		return false, nil
	}

	candidate := domain.SlotAt(start, durationMinutes)

	shifts, err := s.staff.GetShifts(ctx, staffID)
	if err != nil {
		return false, err
	}
	if !withinAnyShift(shifts, start, candidate) {
		return false, nil
	}

	booked, err := s.bookings.FindStaffBookedSlots(ctx, staffID, start)
	if err != nil {
		return false, err
	}
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return false, nil
		}
	}
	return true, nil
}

// GetStaffTimeSlots enumerates the open slots of one staff member for a date,
// at the branch's slot granularity, bounded by branch hours and the staff
// member's shift.
func (s *Service) GetStaffTimeSlots(ctx context.Context, staffID uuid.UUID, date time.Time, durationMinutes int) ([]domain.TimeSlot, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	branch, err := s.branches.GetByID(ctx, staff.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	date = date.In(branch.Location())

	hours, open := branch.HoursOn(date)
	if !open {
		return []domain.TimeSlot{}, nil
	}

	shifts, err := s.staff.GetShifts(ctx, staffID)
	if err != nil {
		return nil, err
	}
	booked, err := s.bookings.FindStaffBookedSlots(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	out := []domain.TimeSlot{}
	step := branch.SlotGranularity()
	for cursor := hours.Start; !cursor.Add(time.Duration(durationMinutes) * time.Minute).After(hours.End); cursor = cursor.Add(step) {
		candidate := domain.SlotAt(cursor, durationMinutes)
		if !withinAnyShift(shifts, cursor, candidate) {
			continue
		}
		if overlapsAny(candidate, booked) {
			continue
		}
		out = append(out, candidate)
	}
	return out, nil
}

// GetAvailableTimeSlots enumerates the branch-level open slots for a date: a
// slot is offered when at least one active staff member is free for it.
func (s *Service) GetAvailableTimeSlots(ctx context.Context, branchID uuid.UUID, date time.Time, durationMinutes int) ([]domain.TimeSlot, error) {
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	date = date.In(branch.Location())

	hours, open := branch.HoursOn(date)
	if !open {
		return []domain.TimeSlot{}, nil
	}

	staff, err := s.staff.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	type staffDay struct {
		shifts []domain.StaffShift
		booked []domain.TimeSlot
	}
	days := make([]staffDay, 0, len(staff))
	for _, member := range staff {
		shifts, err := s.staff.GetShifts(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		booked, err := s.bookings.FindStaffBookedSlots(ctx, member.ID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, staffDay{shifts: shifts, booked: booked})
	}

	out := []domain.TimeSlot{}
	step := branch.SlotGranularity()
	for cursor := hours.Start; !cursor.Add(time.Duration(durationMinutes) * time.Minute).After(hours.End); cursor = cursor.Add(step) {
		candidate := domain.SlotAt(cursor, durationMinutes)
		for _, day := range days {
			if withinAnyShift(day.shifts, cursor, candidate) && !overlapsAny(candidate, day.booked) {
				out = append(out, candidate)
				break
			}
		}
	}
	return out, nil
}

// ListAvailableStaff returns the branch staff free for the whole of
// [start, start+duration): no booked line item in the window and on shift.
func (s *Service) ListAvailableStaff(ctx context.Context, branchID uuid.UUID, start time.Time, durationMinutes int) ([]domain.Staff, error) {
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	start = start.In(branch.Location())

	candidates, err := s.staff.FindAvailableStaff(ctx, branchID, start, durationMinutes)
	if err != nil {
		return nil, err
	}

	candidate := domain.SlotAt(start, durationMinutes)
	out := make([]domain.Staff, 0, len(candidates))
	for i := range candidates {
		shifts, err := s.staff.GetShifts(ctx, candidates[i].ID)
		if err != nil {
			return nil, err
		}
		if withinAnyShift(shifts, start, candidate) {
			out = append(out, candidates[i])
		}
	}
	return out, nil
}

// FindOptimalStaffAssignment suggests one staff member per requested service,
// walking a back-to-back cursor from start. Preference order: capable staff
// with the fewest bookings that day; specialty matches score higher than
// elevated-role fallbacks.
func (s *Service) FindOptimalStaffAssignment(ctx context.Context, serviceIDs []uuid.UUID, start time.Time, branchID uuid.UUID) ([]StaffAssignment, error) {
	staff, err := s.staff.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	out := make([]StaffAssignment, 0, len(serviceIDs))
	cursor := start
	for _, serviceID := range serviceIDs {
		svc, err := s.services.GetByID(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		if svc == nil || !svc.Active {
			return nil, domain.ErrInvalidServices
		}

		var (
			bestID    *uuid.UUID
			bestScore float64
			bestLoad  int
		)
		for i := range staff {
			member := &staff[i]
			if !member.CanPerformService(svc.Category) {
				continue
			}
			free, err := s.CheckStaffAvailability(ctx, member.ID, cursor, svc.DurationMinutes+svc.BufferMinutes)
			if err != nil {
				return nil, err
			}
			if !free {
				continue
			}

			booked, err := s.bookings.FindStaffBookedSlots(ctx, member.ID, cursor)
			if err != nil {
				return nil, err
			}

			score := specialtyConfidence(member, svc.Category)
			if bestID == nil || score > bestScore || (score == bestScore && len(booked) < bestLoad) {
				id := member.ID
				bestID = &id
				bestScore = score
				bestLoad = len(booked)
			}
		}

		if bestID == nil {
			return nil, domain.ErrStaffNotAvailable
		}
		out = append(out, StaffAssignment{ServiceID: serviceID, StaffID: *bestID, Confidence: bestScore})
		cursor = cursor.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	}
	return out, nil
}

func specialtyConfidence(staff *domain.Staff, category string) float64 {
	for _, spec := range staff.Specialties {
		if spec == category {
			return 1.0
		}
	}
	// Capable only through an elevated role.
	return 0.7
}

func withinAnyShift(shifts []domain.StaffShift, day time.Time, candidate domain.TimeSlot) bool {
	for _, sh := range shifts {
		interval, ok := sh.IntervalOn(day)
		if ok && interval.Contains(candidate) {
			return true
		}
	}
	return false
}

func overlapsAny(candidate domain.TimeSlot, booked []domain.TimeSlot) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
