package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayHours holds opening times in "15:04" format; both empty means closed.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours maps lowercase weekday names to opening times. Weekday and
// weekend hours are plain configuration here, not a rule baked into code.
type OperatingHours map[string]DayHours

type BranchSettings struct {
	MinBookingNotice time.Duration  `json:"min_booking_notice"`
	SlotGranularity  time.Duration  `json:"slot_granularity"`
	Timezone         string         `json:"timezone,omitempty"`
	Hours            OperatingHours `json:"hours"`
}

const (
	DefaultMinBookingNotice = 2 * time.Hour
	DefaultSlotGranularity  = 30 * time.Minute
)

type Branch struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Email     string         `json:"email,omitempty"`
	Currency  string         `json:"currency"`
	Active    bool           `json:"active"`
	Settings  BranchSettings `json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func weekdayKey(w time.Weekday) string {
	switch w {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// HoursOn resolves the branch operating interval for a concrete date.
// ok is false when the branch is closed that day.
func (b *Branch) HoursOn(day time.Time) (TimeSlot, bool) {
	dh, found := b.Settings.Hours[weekdayKey(day.Weekday())]
	if !found || dh.Open == "" || dh.Close == "" {
		return TimeSlot{}, false
	}
	open, err := time.Parse("15:04", dh.Open)
	if err != nil {
		return TimeSlot{}, false
	}
	closeT, err := time.Parse("15:04", dh.Close)
	if err != nil {
		return TimeSlot{}, false
	}
	slot := TimeSlot{
		Start: time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, day.Location()),
		End:   time.Date(day.Year(), day.Month(), day.Day(), closeT.Hour(), closeT.Minute(), 0, 0, day.Location()),
	}
	if !slot.End.After(slot.Start) {
		return TimeSlot{}, false
	}
	return slot, true
}

// IsWithinOperatingHours checks that [t, t+duration) fits inside that day's hours.
func (b *Branch) IsWithinOperatingHours(t time.Time, duration time.Duration) bool {
	hours, open := b.HoursOn(t)
	if !open {
		return false
	}
	return hours.Contains(TimeSlot{Start: t, End: t.Add(duration)})
}

// Location resolves the branch timezone. Operating hours, shifts and day
// bucketing are all interpreted in branch wall-clock time, whatever offset
// the client happened to send its timestamps in.
func (b *Branch) Location() *time.Location {
	if b.Settings.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Settings.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (b *Branch) MinBookingNotice() time.Duration {
	if b.Settings.MinBookingNotice <= 0 {
		return DefaultMinBookingNotice
	}
	return b.Settings.MinBookingNotice
}

func (b *Branch) SlotGranularity() time.Duration {
	if b.Settings.SlotGranularity <= 0 {
		return DefaultSlotGranularity
	}
	return b.Settings.SlotGranularity
}
