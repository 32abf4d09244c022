package domain

import "time"

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps is the single overlap predicate used across the whole engine:
// half-open intervals, so touching slots (End == other.Start) never conflict.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

func (s TimeSlot) Contains(other TimeSlot) bool {
	return !other.Start.Before(s.Start) && !other.End.After(s.End)
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func SlotAt(start time.Time, durationMinutes int) TimeSlot {
	return TimeSlot{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}
