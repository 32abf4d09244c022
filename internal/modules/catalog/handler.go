package catalog

import (
	"errors"
	"net/http"

	"pinkblueberry/internal/domain"
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

// RegisterPublicRoutes mounts the read-only directory endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/branches", h.ListBranches)
	rg.GET("/branches/:id", h.GetBranch)
	rg.GET("/branches/:id/services", h.ListServices)
	rg.GET("/branches/:id/staff", h.ListStaff)
	rg.GET("/staff/:id/schedule", h.GetStaffSchedule)
}

// RegisterAdminRoutes mounts the write endpoints; the group carries the
// admin-role middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/branches", h.CreateBranch)
	rg.POST("/branches/:id/services", h.CreateService)
	rg.POST("/branches/:id/staff", h.CreateStaff)
	rg.POST("/staff/:id/shifts", h.AddShift)
}

func (h *Handler) ListBranches(c *gin.Context) {
	branches, err := h.service.ListBranches(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list branches")
		return
	}
	response.Success(c, http.StatusOK, branches)
}

func (h *Handler) GetBranch(c *gin.Context) {
	id, ok := idParam(c, "branch")
	if !ok {
		return
	}
	branch, err := h.service.GetBranch(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, branch)
}

func (h *Handler) ListServices(c *gin.Context) {
	id, ok := idParam(c, "branch")
	if !ok {
		return
	}
	services, err := h.service.ListServices(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, services)
}

func (h *Handler) ListStaff(c *gin.Context) {
	id, ok := idParam(c, "branch")
	if !ok {
		return
	}
	staff, err := h.service.ListStaff(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, staff)
}

func (h *Handler) GetStaffSchedule(c *gin.Context) {
	id, ok := idParam(c, "staff")
	if !ok {
		return
	}
	shifts, err := h.service.GetStaffSchedule(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, shifts)
}

func (h *Handler) CreateBranch(c *gin.Context) {
	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	branch, err := h.service.CreateBranch(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, branch)
}

func (h *Handler) CreateService(c *gin.Context) {
	id, ok := idParam(c, "branch")
	if !ok {
		return
	}
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	svc, err := h.service.CreateService(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	id, ok := idParam(c, "branch")
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	member, err := h.service.CreateStaff(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, member)
}

func (h *Handler) AddShift(c *gin.Context) {
	id, ok := idParam(c, "staff")
	if !ok {
		return
	}
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	shift, err := h.service.AddStaffShift(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, shift)
}

func idParam(c *gin.Context, kind string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+kind+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusUnprocessableEntity
		switch domainErr.Code {
		case "BRANCH_NOT_AVAILABLE", "INVALID_ASSIGNMENT":
			status = http.StatusNotFound
		case "INVALID_DURATION":
			status = http.StatusBadRequest
		}
		response.Error(c, status, domainErr.Code, domainErr.Message)
		return
	}
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}
