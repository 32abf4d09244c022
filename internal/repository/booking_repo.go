package repository

import (
	"context"
	"errors"
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrStaffSlotTaken is returned when the write-time overlap re-check inside
// the create/update transaction finds a competing line item for the same
// staff member. The domain service translates it into STAFF_NOT_AVAILABLE.
var ErrStaffSlotTaken = errors.New("staff slot already taken")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 string          `gorm:"column:id;primaryKey"`
	BranchID           string          `gorm:"column:branch_id;index"`
	CustomerID         string          `gorm:"column:customer_id;index"`
	Status             string          `gorm:"column:status;index"`
	ScheduledAt        time.Time       `gorm:"column:scheduled_at;index"`
	DurationMinutes    int             `gorm:"column:duration_minutes"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2)"`
	DepositPaid        decimal.Decimal `gorm:"column:deposit_paid;type:decimal(10,2)"`
	Currency           string          `gorm:"column:currency"`
	Source             string          `gorm:"column:source"`
	ConfirmedAt        *time.Time      `gorm:"column:confirmed_at"`
	CompletedAt        *time.Time      `gorm:"column:completed_at"`
	CancelledAt        *time.Time      `gorm:"column:cancelled_at"`
	CancellationReason *string         `gorm:"column:cancellation_reason;type:text"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingServiceModel struct {
	ID              string          `gorm:"column:id;primaryKey"`
	BookingID       string          `gorm:"column:booking_id;index"`
	ServiceID       string          `gorm:"column:service_id"`
	StaffID         *string         `gorm:"column:staff_id;index"`
	Position        int             `gorm:"column:position"`
	StartTime       time.Time       `gorm:"column:start_time;index"`
	EndTime         time.Time       `gorm:"column:end_time"`
	DurationMinutes int             `gorm:"column:duration_minutes"`
	PriceAmount     decimal.Decimal `gorm:"column:price_amount;type:decimal(10,2)"`
	DiscountAmount  decimal.Decimal `gorm:"column:discount_amount;type:decimal(10,2)"`
	Currency        string          `gorm:"column:currency"`
	Status          string          `gorm:"column:status"`
}

func (bookingServiceModel) TableName() string { return "booking_services" }

func toDomainBookingService(m bookingServiceModel) (*domain.BookingService, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	bookingID, err := uuid.Parse(m.BookingID)
	if err != nil {
		return nil, err
	}
	serviceID, err := uuid.Parse(m.ServiceID)
	if err != nil {
		return nil, err
	}

	var staffID *uuid.UUID
	if m.StaffID != nil {
		sid, err := uuid.Parse(*m.StaffID)
		if err != nil {
			return nil, err
		}
		staffID = &sid
	}

	price, err := domain.NewMoney(m.PriceAmount, m.Currency)
	if err != nil {
		return nil, err
	}
	discount, err := domain.NewMoney(m.DiscountAmount, m.Currency)
	if err != nil {
		return nil, err
	}

	return &domain.BookingService{
		ID:              id,
		BookingID:       bookingID,
		ServiceID:       serviceID,
		StaffID:         staffID,
		StartTime:       m.StartTime,
		DurationMinutes: m.DurationMinutes,
		Price:           price,
		Discount:        discount,
		Status:          domain.ServiceItemStatus(m.Status),
	}, nil
}

func toBookingServiceModel(item *domain.BookingService, position int) bookingServiceModel {
	var staffID *string
	if item.StaffID != nil {
		v := item.StaffID.String()
		staffID = &v
	}

	return bookingServiceModel{
		ID:              item.ID.String(),
		BookingID:       item.BookingID.String(),
		ServiceID:       item.ServiceID.String(),
		StaffID:         staffID,
		Position:        position,
		StartTime:       item.StartTime,
		EndTime:         item.EndTime(),
		DurationMinutes: item.DurationMinutes,
		PriceAmount:     item.Price.Amount(),
		DiscountAmount:  item.Discount.Amount(),
		Currency:        item.Price.Currency(),
		Status:          string(item.Status),
	}
}

func toDomainBookingRow(m bookingModel, items []bookingServiceModel) (*domain.Booking, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	branchID, err := uuid.Parse(m.BranchID)
	if err != nil {
		return nil, err
	}
	customerID, err := uuid.Parse(m.CustomerID)
	if err != nil {
		return nil, err
	}

	total, err := domain.NewMoney(m.TotalAmount, m.Currency)
	if err != nil {
		return nil, err
	}
	deposit, err := domain.NewMoney(m.DepositPaid, m.Currency)
	if err != nil {
		return nil, err
	}

	var reason string
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	b := &domain.Booking{
		ID:                 id,
		BranchID:           branchID,
		CustomerID:         customerID,
		Status:             domain.BookingStatus(m.Status),
		ScheduledAt:        m.ScheduledAt,
		DurationMinutes:    m.DurationMinutes,
		TotalAmount:        total,
		DepositPaid:        deposit,
		Source:             domain.BookingSource(m.Source),
		Services:           make([]*domain.BookingService, 0, len(items)),
		ConfirmedAt:        m.ConfirmedAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	for _, im := range items {
		item, err := toDomainBookingService(im)
		if err != nil {
			return nil, err
		}
		b.Services = append(b.Services, item)
	}
	return b, nil
}

func toBookingModel(b *domain.Booking) bookingModel {
	var reason *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID.String(),
		BranchID:           b.BranchID.String(),
		CustomerID:         b.CustomerID.String(),
		Status:             string(b.Status),
		ScheduledAt:        b.ScheduledAt,
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount.Amount(),
		DepositPaid:        b.DepositPaid.Amount(),
		Currency:           b.TotalAmount.Currency(),
		Source:             string(b.Source),
		ConfirmedAt:        b.ConfirmedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// countStaffOverlaps re-checks, inside the running transaction, whether the
// staff member already has an active line item overlapping [start, end).
// Half-open comparison: touching intervals do not count.
func countStaffOverlaps(tx *gorm.DB, staffID string, start, end time.Time, excludeBookingID string) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM booking_services bs
JOIN bookings b ON b.id = bs.booking_id
WHERE bs.staff_id = ?
  AND b.id <> ?
  AND b.status NOT IN ('cancelled', 'no_show')
  AND bs.status <> 'cancelled'
  AND bs.start_time < ?
  AND bs.end_time > ?
`
	if err := tx.Raw(q, staffID, excludeBookingID, end, start).Scan(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// Create persists the aggregate and its line items in one transaction. The
// staff overlap re-check runs inside the same transaction so that a plain
// read-then-write race cannot double-book; on Postgres the
// idx_no_double_booking exclusion constraint backs this up and surfaces as a
// pgconn error that the domain service translates.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range b.Services {
			if item.StaffID == nil {
				continue
			}
			cnt, err := countStaffOverlaps(tx, item.StaffID.String(), item.StartTime, item.EndTime(), b.ID.String())
			if err != nil {
				return err
			}
			if cnt > 0 {
				return ErrStaffSlotTaken
			}
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for i, item := range b.Services {
			im := toBookingServiceModel(item, i)
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves the aggregate and rewrites its line items, re-running the
// overlap check for staffed items since a reschedule moves their intervals.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.Status == domain.StatusPending || b.Status == domain.StatusConfirmed {
			for _, item := range b.Services {
				if item.StaffID == nil || item.Status == domain.ServiceItemCancelled {
					continue
				}
				cnt, err := countStaffOverlaps(tx, item.StaffID.String(), item.StartTime, item.EndTime(), b.ID.String())
				if err != nil {
					return err
				}
				if cnt > 0 {
					return ErrStaffSlotTaken
				}
			}
		}

		m := toBookingModel(b)
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", b.ID.String()).Delete(&bookingServiceModel{}).Error; err != nil {
			return err
		}
		for i, item := range b.Services {
			im := toBookingServiceModel(item, i)
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BookingRepository) loadItems(ctx context.Context, bookingIDs []string) (map[string][]bookingServiceModel, error) {
	if len(bookingIDs) == 0 {
		return map[string][]bookingServiceModel{}, nil
	}

	var items []bookingServiceModel
	tx := r.db.WithContext(ctx).
		Where("booking_id IN ?", bookingIDs).
		Order("booking_id, position").
		Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string][]bookingServiceModel, len(bookingIDs))
	for _, im := range items {
		out[im.BookingID] = append(out[im.BookingID], im)
	}
	return out, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id.String())
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}

	items, err := r.loadItems(ctx, []string{m.ID})
	if err != nil {
		return nil, err
	}
	return toDomainBookingRow(m, items[m.ID])
}

func (r *BookingRepository) findRows(ctx context.Context, where string, args ...any) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).Where(where, args...).Order("scheduled_at").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		b, err := toDomainBookingRow(m, items[m.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) FindByBranchAndDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]domain.Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	return r.findRows(ctx, "branch_id = ? AND scheduled_at >= ? AND scheduled_at < ?", branchID.String(), dayStart, dayEnd)
}

func (r *BookingRepository) FindByCustomerAndDateRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	return r.findRows(ctx, "customer_id = ? AND scheduled_at >= ? AND scheduled_at < ?", customerID.String(), from, to)
}

// FindStaffBookedSlots returns the active booked intervals of one staff
// member for a calendar day, ordered by start time.
func (r *BookingRepository) FindStaffBookedSlots(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.TimeSlot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []struct {
		StartTime time.Time
		EndTime   time.Time
	}
	q := `
SELECT bs.start_time, bs.end_time
FROM booking_services bs
JOIN bookings b ON b.id = bs.booking_id
WHERE bs.staff_id = ?
  AND b.status NOT IN ('cancelled', 'no_show')
  AND bs.status <> 'cancelled'
  AND bs.start_time >= ?
  AND bs.start_time < ?
ORDER BY bs.start_time
`
	tx := r.db.WithContext(ctx).Raw(q, staffID.String(), dayStart, dayEnd).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.TimeSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TimeSlot{Start: row.StartTime, End: row.EndTime})
	}
	return out, nil
}

// FindOverdueConfirmed lists confirmed bookings that already ended before the
// cutoff, for the no-show sweep. The end-time refinement happens in Go to
// stay portable between Postgres and SQLite.
func (r *BookingRepository) FindOverdueConfirmed(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	rows, err := r.findRows(ctx, "status = ? AND scheduled_at < ?", string(domain.StatusConfirmed), cutoff)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, b := range rows {
		if b.EndTime().Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}
