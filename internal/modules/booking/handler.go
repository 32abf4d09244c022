package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

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

// RegisterRoutes mounts the booking endpoints. The group is expected to carry
// the auth middleware; handlers read the customer id from the context.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/start", h.Start)
	rg.POST("/bookings/:id/complete", h.Complete)
	rg.POST("/bookings/:id/reschedule", h.Reschedule)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/deposit", h.PayDeposit)
	rg.POST("/bookings/quote", h.Quote)
	rg.GET("/branches/:id/conflicts", h.Conflicts)
}

func (h *Handler) Create(c *gin.Context) {
	customerID, ok := customerFromContext(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req.toCommand(customerID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	customerID, ok := customerFromContext(c)
	if !ok {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to are required")
		return
	}
	from, err := time.Parse("2006-01-02", q.From)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", q.To)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
		return
	}

	bookings, err := h.service.ListByCustomer(c.Request.Context(), customerID, from, to.AddDate(0, 0, 1))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.service.ConfirmBooking)
}

func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.service.StartBooking)
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.service.CompleteBooking)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "new_time is required")
		return
	}

	b, err := h.service.RescheduleBooking(c.Request.Context(), id, req.NewTime)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "reason is required")
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) PayDeposit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "amount and currency are required")
		return
	}
	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.PayDeposit(c.Request.Context(), id, amount)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Quote(c *gin.Context) {
	customerID, ok := customerFromContext(c)
	if !ok {
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "service_ids are required")
		return
	}

	quote, err := h.service.CalculateBookingPrice(c.Request.Context(), customerID, req.ServiceIDs)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

func (h *Handler) Conflicts(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid branch ID")
		return
	}
	var q ConflictsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "scheduled_at and duration are required")
		return
	}

	conflicts, err := h.service.CheckBookingConflicts(c.Request.Context(), branchID, q.ScheduledAt, q.Duration, q.ExcludeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conflicts": conflicts, "has_conflicts": len(conflicts) > 0})
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := fn(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func customerFromContext(c *gin.Context) (uuid.UUID, bool) {
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

// writeDomainError maps domain error codes onto HTTP statuses. Unknown errors
// become a 500 without leaking internals.
func writeDomainError(c *gin.Context, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	status := http.StatusUnprocessableEntity
	switch domainErr.Code {
	case "BOOKING_NOT_FOUND", "BRANCH_NOT_AVAILABLE", "INVALID_SERVICES", "INVALID_ASSIGNMENT":
		status = http.StatusNotFound
	case "STAFF_NOT_AVAILABLE", "TIME_SLOT_UNAVAILABLE":
		status = http.StatusConflict
	case "VALIDATION_ERROR", "INVALID_DURATION", "NO_SERVICES", "CURRENCY_MISMATCH":
		status = http.StatusBadRequest
	}
	response.DomainError(c, status, domainErr)
}
