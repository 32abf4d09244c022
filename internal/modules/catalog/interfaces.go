package catalog

import (
	"context"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
)

type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.Service, error)
}

type StaffRepository interface {
	Create(ctx context.Context, s *domain.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.Staff, error)
	GetShifts(ctx context.Context, staffID uuid.UUID) ([]domain.StaffShift, error)
	CreateShift(ctx context.Context, shift domain.StaffShift) error
}
