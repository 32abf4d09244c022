package repository

import (
	"context"
	"errors"
	"time"

	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

type staffModel struct {
	ID             string          `gorm:"column:id;primaryKey"`
	BranchID       string          `gorm:"column:branch_id;index"`
	Name           string          `gorm:"column:name"`
	Email          string          `gorm:"column:email"`
	Phone          string          `gorm:"column:phone"`
	Role           string          `gorm:"column:role"`
	Specialties    []byte          `gorm:"column:specialties;type:json"`
	CommissionRate decimal.Decimal `gorm:"column:commission_rate;type:decimal(5,2)"`
	Active         bool            `gorm:"column:active"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (staffModel) TableName() string { return "staff" }

type staffShiftModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	StaffID   string `gorm:"column:staff_id;index"`
	DayOfWeek int    `gorm:"column:day_of_week"`
	StartTime string `gorm:"column:start_time"`
	EndTime   string `gorm:"column:end_time"`
}

func (staffShiftModel) TableName() string { return "staff_shifts" }

func toDomainStaff(m staffModel) (*domain.Staff, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	branchID, err := uuid.Parse(m.BranchID)
	if err != nil {
		return nil, err
	}

	return &domain.Staff{
		ID:             id,
		BranchID:       branchID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Role:           domain.StaffRole(m.Role),
		Specialties:    utils.JSONToList(m.Specialties),
		CommissionRate: m.CommissionRate,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func toStaffModel(s *domain.Staff) staffModel {
	return staffModel{
		ID:             s.ID.String(),
		BranchID:       s.BranchID.String(),
		Name:           s.Name,
		Email:          s.Email,
		Phone:          s.Phone,
		Role:           string(s.Role),
		Specialties:    utils.ListToJSON(s.Specialties),
		CommissionRate: s.CommissionRate,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	m := toStaffModel(s)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	var m staffModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id.String())
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainStaff(m)
}

func (r *StaffRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.Staff, error) {
	var models []staffModel
	tx := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID.String(), true).
		Order("name").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Staff, 0, len(models))
	for _, m := range models {
		s, err := toDomainStaff(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// FindAvailableStaff returns active staff of the branch with no booked line
// item overlapping [start, start+duration). Capability filtering is the
// caller's job.
func (r *StaffRepository) FindAvailableStaff(ctx context.Context, branchID uuid.UUID, start time.Time, durationMinutes int) ([]domain.Staff, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	var models []staffModel
	q := `
SELECT s.*
FROM staff s
WHERE s.branch_id = ?
  AND s.active = ?
  AND NOT EXISTS (
    SELECT 1
    FROM booking_services bs
    JOIN bookings b ON b.id = bs.booking_id
    WHERE bs.staff_id = s.id
      AND b.status NOT IN ('cancelled', 'no_show')
      AND bs.status <> 'cancelled'
      AND bs.start_time < ?
      AND bs.end_time > ?
  )
ORDER BY s.name
`
	tx := r.db.WithContext(ctx).Raw(q, branchID.String(), true, end, start).Scan(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Staff, 0, len(models))
	for _, m := range models {
		s, err := toDomainStaff(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *StaffRepository) GetShifts(ctx context.Context, staffID uuid.UUID) ([]domain.StaffShift, error) {
	var models []staffShiftModel
	tx := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID.String()).
		Order("day_of_week, start_time").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.StaffShift, 0, len(models))
	for _, m := range models {
		id, err := uuid.Parse(m.StaffID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StaffShift{
			StaffID:   id,
			DayOfWeek: time.Weekday(m.DayOfWeek),
			StartTime: m.StartTime,
			EndTime:   m.EndTime,
		})
	}
	return out, nil
}

func (r *StaffRepository) CreateShift(ctx context.Context, shift domain.StaffShift) error {
	m := staffShiftModel{
		StaffID:   shift.StaffID.String(),
		DayOfWeek: int(shift.DayOfWeek),
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}
