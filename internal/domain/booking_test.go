package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T, scheduledAt time.Time, now time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), scheduledAt, SourceOnline, "USD", now)
	require.NoError(t, err)
	return b
}

func newTestItem(t *testing.T, start time.Time, minutes int, price string) *BookingService {
	t.Helper()
	item, err := NewBookingService(uuid.New(), nil, start, minutes, MustMoney(price, "USD"))
	require.NoError(t, err)
	return item
}

func TestNewBooking_RejectsPastTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := NewBooking(uuid.New(), uuid.New(), now.Add(-time.Minute), SourceOnline, "USD", now)
	assert.ErrorIs(t, err, ErrInvalidScheduleTime)

	_, err = NewBooking(uuid.New(), uuid.New(), now, SourceOnline, "USD", now)
	assert.ErrorIs(t, err, ErrInvalidScheduleTime)
}

func TestBooking_TotalsFollowLineItems(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.Add(48 * time.Hour)
	b := newTestBooking(t, start, now)

	cut := newTestItem(t, start, 60, "100.00")
	color := newTestItem(t, start.Add(60*time.Minute), 30, "45.50")

	require.NoError(t, b.AddService(cut))
	require.NoError(t, b.AddService(color))

	assert.Equal(t, 90, b.DurationMinutes)
	assert.True(t, b.TotalAmount.Equal(MustMoney("145.50", "USD")))

	require.NoError(t, b.RemoveService(color.ID))
	assert.Equal(t, 60, b.DurationMinutes)
	assert.True(t, b.TotalAmount.Equal(MustMoney("100.00", "USD")))
}

func TestBooking_RemoveUnknownService(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)

	err := b.RemoveService(uuid.New())
	assert.ErrorIs(t, err, ErrInvalidServices)
}

func TestBooking_ConfirmRequiresServices(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)

	_, err := b.Confirm(now)
	assert.ErrorIs(t, err, ErrNoServices)

	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	ev, err := b.Confirm(now)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.NotNil(t, b.ConfirmedAt)

	confirmed, ok := ev.(BookingConfirmed)
	require.True(t, ok)
	assert.Equal(t, b.ID, confirmed.BookingID)

	// Confirmation is irreversible.
	_, err = b.Confirm(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_ServicesLockedAfterConfirm(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	item := newTestItem(t, b.ScheduledAt, 60, "100.00")
	require.NoError(t, b.AddService(item))

	_, err := b.Confirm(now)
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddService(newTestItem(t, b.ScheduledAt, 30, "20.00")), ErrBookingLocked)
	assert.ErrorIs(t, b.RemoveService(item.ID), ErrBookingLocked)
}

func TestBooking_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	assert.ErrorIs(t, b.Start(now), ErrInvalidTransition)

	_, err := b.Confirm(now)
	require.NoError(t, err)
	require.NoError(t, b.Start(now))
	assert.Equal(t, StatusInProgress, b.Status)

	require.NoError(t, b.Complete(now))
	assert.Equal(t, StatusCompleted, b.Status)
	assert.NotNil(t, b.CompletedAt)

	_, err = b.Cancel("too late", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_CancelStampsReason(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	ev, err := b.Cancel("customer request", now)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, "customer request", b.CancellationReason)
	assert.NotNil(t, b.CancelledAt)

	cancelled, ok := ev.(BookingCancelled)
	require.True(t, ok)
	assert.Equal(t, "customer request", cancelled.Reason)

	_, err = b.Cancel("again", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_CancelCascadesToLineItems(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	cut := newTestItem(t, b.ScheduledAt, 60, "100.00")
	color := newTestItem(t, b.ScheduledAt.Add(60*time.Minute), 30, "45.50")
	require.NoError(t, b.AddService(cut))
	require.NoError(t, b.AddService(color))

	_, err := b.Cancel("customer request", now)
	require.NoError(t, err)

	// Cancelled items release their staff intervals for rebooking.
	assert.Equal(t, ServiceItemCancelled, cut.Status)
	assert.Equal(t, ServiceItemCancelled, color.Status)
}

func TestBooking_CanRescheduleBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(72*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))
	_, err := b.Confirm(now)
	require.NoError(t, err)

	exactly24h := b.ScheduledAt.Add(-24 * time.Hour)
	assert.True(t, b.CanReschedule(exactly24h))

	justUnder := b.ScheduledAt.Add(-23*time.Hour - 59*time.Minute)
	assert.False(t, b.CanReschedule(justUnder))
}

func TestBooking_CanCancelBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(72*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	assert.True(t, b.CanCancel(b.ScheduledAt.Add(-2*time.Hour)))
	assert.False(t, b.CanCancel(b.ScheduledAt.Add(-119*time.Minute)))
}

func TestBooking_RescheduleShiftsLineItems(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	b := newTestBooking(t, start, now)
	first := newTestItem(t, start, 60, "100.00")
	second := newTestItem(t, start.Add(time.Hour), 30, "40.00")
	require.NoError(t, b.AddService(first))
	require.NoError(t, b.AddService(second))
	_, err := b.Confirm(now)
	require.NoError(t, err)

	newStart := time.Date(2026, 3, 13, 14, 0, 0, 0, time.UTC)
	require.NoError(t, b.Reschedule(newStart, now))

	assert.Equal(t, newStart, b.ScheduledAt)
	assert.Equal(t, newStart, first.StartTime)
	assert.Equal(t, newStart.Add(time.Hour), second.StartTime)
}

func TestBooking_RemainingBalanceIsPure(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))
	require.NoError(t, b.PayDeposit(MustMoney("30.00", "USD")))

	first := b.RemainingBalance()
	second := b.RemainingBalance()
	assert.True(t, first.Equal(second))
	assert.True(t, first.Equal(MustMoney("70.00", "USD")))
}

func TestBooking_DepositNotClamped(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	require.NoError(t, b.PayDeposit(MustMoney("80.00", "USD")))
	require.NoError(t, b.PayDeposit(MustMoney("80.00", "USD")))

	assert.True(t, b.DepositPaid.Equal(MustMoney("160.00", "USD")))
	assert.True(t, b.RemainingBalance().Amount().IsNegative())
}

func TestBooking_MarkNoShow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(t, now.Add(48*time.Hour), now)
	require.NoError(t, b.AddService(newTestItem(t, b.ScheduledAt, 60, "100.00")))

	// Pending bookings are not eligible.
	assert.ErrorIs(t, b.MarkNoShow(b.ScheduledAt.Add(time.Hour)), ErrInvalidTransition)

	_, err := b.Confirm(now)
	require.NoError(t, err)

	// Not before the appointment time.
	assert.ErrorIs(t, b.MarkNoShow(b.ScheduledAt.Add(-time.Minute)), ErrInvalidTransition)

	require.NoError(t, b.MarkNoShow(b.ScheduledAt.Add(time.Hour)))
	assert.Equal(t, StatusNoShow, b.Status)
}

func TestTimeSlot_OverlapBoundaries(t *testing.T) {
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	ten := day.Add(10 * time.Hour)

	a := TimeSlot{Start: ten, End: ten.Add(time.Hour)}
	touching := TimeSlot{Start: ten.Add(time.Hour), End: ten.Add(2 * time.Hour)}
	overlapping := TimeSlot{Start: ten.Add(59 * time.Minute), End: ten.Add(90 * time.Minute)}

	assert.False(t, a.Overlaps(touching))
	assert.False(t, touching.Overlaps(a))
	assert.True(t, a.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(a))
}

func TestBookingService_Discount(t *testing.T) {
	item := newTestItem(t, time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC), 60, "100.00")

	assert.ErrorIs(t, item.ApplyDiscount(MustMoney("100.01", "USD")), ErrInvalidDiscount)

	require.NoError(t, item.ApplyDiscount(MustMoney("25.00", "USD")))
	assert.True(t, item.FinalPrice().Equal(MustMoney("75.00", "USD")))
}

func TestBookingService_StatusMachine(t *testing.T) {
	item := newTestItem(t, time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC), 60, "100.00")

	assert.ErrorIs(t, item.Complete(), ErrInvalidTransition)
	require.NoError(t, item.Start())
	require.NoError(t, item.Complete())
	assert.ErrorIs(t, item.Cancel(), ErrInvalidTransition)
}

func TestBookingService_RejectsNonPositiveDuration(t *testing.T) {
	_, err := NewBookingService(uuid.New(), nil, time.Now(), 0, MustMoney("10.00", "USD"))
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestBranch_LocationFallsBackToUTC(t *testing.T) {
	b := &Branch{}
	assert.Equal(t, time.UTC, b.Location())

	b.Settings.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, b.Location())

	b.Settings.Timezone = "America/New_York"
	assert.Equal(t, "America/New_York", b.Location().String())
}
