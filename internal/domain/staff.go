package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleManager   StaffRole = "manager"
	RoleStylist   StaffRole = "stylist"
	RoleAssistant StaffRole = "assistant"
)

type Staff struct {
	ID             uuid.UUID       `json:"id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Role           StaffRole       `json:"role"`
	Specialties    []string        `json:"specialties"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanPerformService: admins and managers can cover any category, everyone
// else needs the category in their specialties. Inactive staff perform nothing.
func (s *Staff) CanPerformService(category string) bool {
	if !s.Active {
		return false
	}
	if s.Role == RoleAdmin || s.Role == RoleManager {
		return true
	}
	for _, spec := range s.Specialties {
		if spec == category {
			return true
		}
	}
	return false
}

// StaffShift is one recurring working interval, times in "15:04" local format.
type StaffShift struct {
	StaffID   uuid.UUID    `json:"staff_id"`
	DayOfWeek time.Weekday `json:"day_of_week"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
}

// IntervalOn anchors the shift onto a concrete date.
func (sh StaffShift) IntervalOn(day time.Time) (TimeSlot, bool) {
	if day.Weekday() != sh.DayOfWeek {
		return TimeSlot{}, false
	}
	start, err := time.Parse("15:04", sh.StartTime)
	if err != nil {
		return TimeSlot{}, false
	}
	end, err := time.Parse("15:04", sh.EndTime)
	if err != nil {
		return TimeSlot{}, false
	}
	return TimeSlot{
		Start: time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, day.Location()),
		End:   time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, day.Location()),
	}, true
}
