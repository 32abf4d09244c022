package auth

import (
	"context"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type tokenIssuer interface {
	GenerateToken(customerID uuid.UUID, role string) (string, error)
}
