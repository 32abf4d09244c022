package availability

import (
	"net/http"
	"time"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/branches/:id/slots", h.GetBranchSlots)
	rg.GET("/branches/:id/available-staff", h.GetAvailableStaff)
	rg.GET("/staff/:id/slots", h.GetStaffSlots)
}

func (h *Handler) GetBranchSlots(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid branch ID")
		return
	}

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and duration are required")
		return
	}
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.GetAvailableTimeSlots(c.Request.Context(), branchID, date, q.Duration)
	if err != nil {
		if err == ErrBranchNotFound {
			response.Error(c, http.StatusNotFound, "BRANCH_NOT_AVAILABLE", "Branch not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": q.Date, "slots": slots})
}

// GetAvailableStaff lists the staff free for a concrete window, for pickers
// that let the customer choose a stylist before booking.
func (h *Handler) GetAvailableStaff(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid branch ID")
		return
	}

	var q AvailableStaffQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "at and duration are required")
		return
	}
	at, err := time.Parse(time.RFC3339, q.At)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "at must be RFC3339")
		return
	}

	staff, err := h.service.ListAvailableStaff(c.Request.Context(), branchID, at, q.Duration)
	if err != nil {
		if err == ErrBranchNotFound {
			response.Error(c, http.StatusNotFound, "BRANCH_NOT_AVAILABLE", "Branch not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"at": q.At, "staff": staff})
}

func (h *Handler) GetStaffSlots(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid staff ID")
		return
	}

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and duration are required")
		return
	}
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.GetStaffTimeSlots(c.Request.Context(), staffID, date, q.Duration)
	if err != nil {
		switch err {
		case ErrStaffNotFound:
			response.Error(c, http.StatusNotFound, "INVALID_ASSIGNMENT", "Staff member not found")
		case ErrBranchNotFound:
			response.Error(c, http.StatusNotFound, "BRANCH_NOT_AVAILABLE", "Branch not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": q.Date, "slots": slots})
}
