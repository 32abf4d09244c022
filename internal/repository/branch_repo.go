package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

type branchModel struct {
	ID                     string    `gorm:"column:id;primaryKey"`
	Name                   string    `gorm:"column:name"`
	Address                string    `gorm:"column:address"`
	Phone                  string    `gorm:"column:phone"`
	Email                  string    `gorm:"column:email"`
	Currency               string    `gorm:"column:currency"`
	Active                 bool      `gorm:"column:active"`
	MinBookingNoticeMinutes int       `gorm:"column:min_booking_notice_minutes"`
	SlotGranularityMinutes  int       `gorm:"column:slot_granularity_minutes"`
	Timezone               string    `gorm:"column:timezone"`
	OperatingHours         []byte    `gorm:"column:operating_hours;type:json"`
	CreatedAt              time.Time `gorm:"column:created_at"`
	UpdatedAt              time.Time `gorm:"column:updated_at"`
}

func (branchModel) TableName() string { return "branches" }

func toDomainBranch(m branchModel) (*domain.Branch, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	hours := domain.OperatingHours{}
	if len(m.OperatingHours) > 0 {
		if err := json.Unmarshal(m.OperatingHours, &hours); err != nil {
			return nil, err
		}
	}

	return &domain.Branch{
		ID:       id,
		Name:     m.Name,
		Address:  m.Address,
		Phone:    m.Phone,
		Email:    m.Email,
		Currency: m.Currency,
		Active:   m.Active,
		Settings: domain.BranchSettings{
			MinBookingNotice: time.Duration(m.MinBookingNoticeMinutes) * time.Minute,
			SlotGranularity:  time.Duration(m.SlotGranularityMinutes) * time.Minute,
			Timezone:         m.Timezone,
			Hours:            hours,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func toBranchModel(b *domain.Branch) (branchModel, error) {
	hours, err := json.Marshal(b.Settings.Hours)
	if err != nil {
		return branchModel{}, err
	}

	return branchModel{
		ID:                      b.ID.String(),
		Name:                    b.Name,
		Address:                 b.Address,
		Phone:                   b.Phone,
		Email:                   b.Email,
		Currency:                b.Currency,
		Active:                  b.Active,
		MinBookingNoticeMinutes: int(b.Settings.MinBookingNotice / time.Minute),
		SlotGranularityMinutes:  int(b.Settings.SlotGranularity / time.Minute),
		Timezone:                b.Settings.Timezone,
		OperatingHours:          hours,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *domain.Branch) error {
	m, err := toBranchModel(b)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *BranchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	var m branchModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id.String())
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainBranch(m)
}

func (r *BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	var models []branchModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Branch, 0, len(models))
	for _, m := range models {
		b, err := toDomainBranch(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}
