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

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID              string          `gorm:"column:id;primaryKey"`
	BranchID        string          `gorm:"column:branch_id;index"`
	Name            string          `gorm:"column:name"`
	Category        string          `gorm:"column:category"`
	DurationMinutes int             `gorm:"column:duration_minutes"`
	BufferMinutes   int             `gorm:"column:buffer_minutes"`
	PriceAmount     decimal.Decimal `gorm:"column:price_amount;type:decimal(10,2)"`
	Currency        string          `gorm:"column:currency"`
	Active          bool            `gorm:"column:active"`
	RequiresDeposit bool            `gorm:"column:requires_deposit"`
	DepositAmount   *decimal.Decimal `gorm:"column:deposit_amount;type:decimal(10,2)"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) (*domain.Service, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	branchID, err := uuid.Parse(m.BranchID)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(m.PriceAmount, m.Currency)
	if err != nil {
		return nil, err
	}

	var deposit *domain.Money
	if m.DepositAmount != nil {
		d, err := domain.NewMoney(*m.DepositAmount, m.Currency)
		if err != nil {
			return nil, err
		}
		deposit = &d
	}

	return &domain.Service{
		ID:              id,
		BranchID:        branchID,
		Name:            m.Name,
		Category:        m.Category,
		DurationMinutes: m.DurationMinutes,
		BufferMinutes:   m.BufferMinutes,
		Price:           price,
		Active:          m.Active,
		RequiresDeposit: m.RequiresDeposit,
		DepositAmount:   deposit,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func toServiceModel(s *domain.Service) serviceModel {
	var deposit *decimal.Decimal
	if s.DepositAmount != nil {
		v := s.DepositAmount.Amount()
		deposit = &v
	}

	return serviceModel{
		ID:              s.ID.String(),
		BranchID:        s.BranchID.String(),
		Name:            s.Name,
		Category:        s.Category,
		DurationMinutes: s.DurationMinutes,
		BufferMinutes:   s.BufferMinutes,
		PriceAmount:     s.Price.Amount(),
		Currency:        s.Price.Currency(),
		Active:          s.Active,
		RequiresDeposit: s.RequiresDeposit,
		DepositAmount:   deposit,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id.String())
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainService(m)
}

func (r *ServiceRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.Service, error) {
	var models []serviceModel
	tx := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID.String(), true).
		Order("category, name").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Service, 0, len(models))
	for _, m := range models {
		s, err := toDomainService(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}
