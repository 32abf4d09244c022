package repository

import (
	"context"
	"errors"
	"time"

	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type customerModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	Tags         []byte    `gorm:"column:tags;type:json"`
	VIP          bool      `gorm:"column:vip"`
	Preferences  string    `gorm:"column:preferences;type:text"`
	Active       bool      `gorm:"column:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

func toDomainCustomer(m customerModel) (*domain.Customer, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Customer{
		ID:           id,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Tags:         utils.JSONToList(m.Tags),
		VIP:          m.VIP,
		Preferences:  m.Preferences,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func toCustomerModel(c *domain.Customer) customerModel {
	return customerModel{
		ID:           c.ID.String(),
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: c.PasswordHash,
		Tags:         utils.ListToJSON(c.Tags),
		VIP:          c.VIP,
		Preferences:  c.Preferences,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	m := toCustomerModel(c)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	m := toCustomerModel(c)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var m customerModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id.String())
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainCustomer(m)
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var m customerModel
	tx := r.db.WithContext(ctx).First(&m, "email = ?", email)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainCustomer(m)
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&customerModel{}).Where("email = ?", email).Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
