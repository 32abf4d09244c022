package auth

import (
	"errors"
	"net/http"

	"pinkblueberry/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
	rg.PATCH("/auth/me", h.UpdateProfile)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Registration failed")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"customer": result.Customer,
		"token":    result.Token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrCustomerInactive):
			response.Error(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"customer": result.Customer,
		"token":    result.Token,
	})
}

func (h *Handler) Me(c *gin.Context) {
	id, ok := currentCustomer(c)
	if !ok {
		return
	}
	customer, err := h.service.GetCurrentCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}
	response.Success(c, http.StatusOK, customer)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := currentCustomer(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	customer, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, customer)
}

func currentCustomer(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("customer_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}
