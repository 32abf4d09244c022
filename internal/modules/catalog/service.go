package catalog

import (
	"context"
	"time"

	"pinkblueberry/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes the branch, service and staff directory. Reads power the
// public storefront; writes are admin-only and wired behind the role
// middleware.
type Service struct {
	branches BranchRepository
	services ServiceRepository
	staff    StaffRepository
}

func NewService(branches BranchRepository, services ServiceRepository, staff StaffRepository) *Service {
	return &Service{branches: branches, services: services, staff: staff}
}

func (s *Service) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branches.List(ctx)
}

func (s *Service) GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	b, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBranchNotAvailable
	}
	return b, nil
}

func (s *Service) CreateBranch(ctx context.Context, req CreateBranchRequest) (*domain.Branch, error) {
	hours := domain.OperatingHours{}
	for day, h := range req.Hours {
		hours[day] = domain.DayHours{Open: h.Open, Close: h.Close}
	}

	now := time.Now()
	b := &domain.Branch{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Currency: req.Currency,
		Active:   true,
		Settings: domain.BranchSettings{
			MinBookingNotice: time.Duration(req.MinNoticeMinutes) * time.Minute,
			SlotGranularity:  time.Duration(req.SlotGranularityMinutes) * time.Minute,
			Timezone:         req.Timezone,
			Hours:            hours,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.branches.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListServices(ctx context.Context, branchID uuid.UUID) ([]domain.Service, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return s.services.ListByBranch(ctx, branchID)
}

func (s *Service) CreateService(ctx context.Context, branchID uuid.UUID, req CreateServiceRequest) (*domain.Service, error) {
	branch, err := s.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if req.DurationMinutes <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	price, err := parsePrice(req.Price, branch.Currency)
	if err != nil {
		return nil, err
	}

	svc := &domain.Service{
		ID:              uuid.New(),
		BranchID:        branchID,
		Name:            req.Name,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		BufferMinutes:   req.BufferMinutes,
		Price:           price,
		Active:          true,
	}
	if req.DepositAmount != "" {
		deposit, err := parsePrice(req.DepositAmount, branch.Currency)
		if err != nil {
			return nil, err
		}
		svc.RequiresDeposit = true
		svc.DepositAmount = &deposit
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) ListStaff(ctx context.Context, branchID uuid.UUID) ([]domain.Staff, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return s.staff.ListByBranch(ctx, branchID)
}

func (s *Service) CreateStaff(ctx context.Context, branchID uuid.UUID, req CreateStaffRequest) (*domain.Staff, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	commission := decimal.Zero
	if req.CommissionRate != "" {
		var err error
		commission, err = decimal.NewFromString(req.CommissionRate)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	member := &domain.Staff{
		ID:             uuid.New(),
		BranchID:       branchID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           domain.StaffRole(req.Role),
		Specialties:    req.Specialties,
		CommissionRate: commission,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) GetStaffSchedule(ctx context.Context, staffID uuid.UUID) ([]domain.StaffShift, error) {
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrInvalidAssignment
	}
	return s.staff.GetShifts(ctx, staffID)
}

func (s *Service) AddStaffShift(ctx context.Context, staffID uuid.UUID, req CreateShiftRequest) (*domain.StaffShift, error) {
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrInvalidAssignment
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidDuration
	}

	shift := domain.StaffShift{
		StaffID:   staffID,
		DayOfWeek: time.Weekday(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.staff.CreateShift(ctx, shift); err != nil {
		return nil, err
	}
	return &shift, nil
}

func parsePrice(raw, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.NewMoney(d, currency)
}
