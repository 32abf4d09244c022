package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/pkg/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Self-registration always hands out the customer role. Operator accounts
// carry the admin tag, set by the seeder or directly in the database.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	adminTag = "admin"
)

// Service contains the business logic for customer authentication.
type Service struct {
	customers CustomerRepository
	jwt       tokenIssuer
}

type LoginResult struct {
	Customer *domain.Customer
	Token    string
}

func NewService(customers CustomerRepository, jwt tokenIssuer) *Service {
	return &Service{customers: customers, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	customer := &domain.Customer{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fields := validator.Validate(customer); fields != nil {
		return nil, fmt.Errorf("invalid customer: %v", fields)
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(customer.ID, RoleCustomer)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Customer: customer, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	customer, err := s.customers.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !customer.Active {
		return nil, ErrCustomerInactive
	}

	token, err := s.jwt.GenerateToken(customer.ID, roleFor(customer))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Customer: customer, Token: token}, nil
}

func (s *Service) GetCurrentCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}
	return customer, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.Customer, error) {
	customer, err := s.GetCurrentCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Preferences != nil {
		customer.Preferences = *req.Preferences
	}
	customer.UpdatedAt = time.Now()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func roleFor(c *domain.Customer) string {
	for _, tag := range c.Tags {
		if tag == adminTag {
			return RoleAdmin
		}
	}
	return RoleCustomer
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
