package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pinkblueberry/internal/database"
	"pinkblueberry/internal/middleware"
	"pinkblueberry/internal/modules/auth"
	"pinkblueberry/internal/modules/availability"
	"pinkblueberry/internal/modules/booking"
	"pinkblueberry/internal/modules/catalog"
	"pinkblueberry/internal/modules/notification"
	jwtsvc "pinkblueberry/internal/pkg/jwt"
	"pinkblueberry/internal/pkg/logger"
	"pinkblueberry/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type suite struct {
	router *gin.Engine
	db     *gorm.DB
}

func newSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("error", false)
	db, err := database.Connect(":memory:", log)
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, repository.AutoMigrate(db))

	branchRepo := repository.NewBranchRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New("e2e-secret", time.Hour)

	hub := notification.NewHub()
	t.Cleanup(hub.Close)
	publisher := notification.NewPublisher(hub, log)

	authHandler := auth.NewHandler(auth.NewService(customerRepo, j))
	catalogHandler := catalog.NewHandler(catalog.NewService(branchRepo, serviceRepo, staffRepo))
	availabilityService := availability.NewService(bookingRepo, staffRepo, branchRepo, serviceRepo)
	availabilityHandler := availability.NewHandler(availabilityService)
	bookingHandler := booking.NewHandler(booking.NewService(
		bookingRepo, branchRepo, serviceRepo, staffRepo, availabilityService, publisher, booking.NoDiscount,
	))
	notificationHandler := notification.NewHandler(hub)

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	return &suite{router: r, db: db}
}

func (s *suite) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w, parsed
}

// registerAdmin creates an operator account through the API and promotes it
// with the admin tag, then logs in again so the token carries the admin role.
func (s *suite) registerAdmin(t *testing.T) string {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Front Desk", "email": "ops@example.com", "password": "operator-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	res := s.db.Exec(`UPDATE customers SET tags = ? WHERE email = ?`, `["admin"]`, "ops@example.com")
	require.NoError(t, res.Error)

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ops@example.com", "password": "operator-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	return payload.Token
}

func (s *suite) registerCustomer(t *testing.T, email string) string {
	t.Helper()
	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Jane", "email": email, "password": "customer-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	return payload.Token
}

type idHolder struct {
	ID string `json:"id"`
}

func (s *suite) buildSalon(t *testing.T, adminToken string) (branchID, serviceID, staffID string) {
	t.Helper()

	hours := gin.H{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		hours[day] = gin.H{"open": "09:00", "close": "18:00"}
	}
	w, resp := s.do(t, http.MethodPost, "/api/v1/branches", adminToken, gin.H{
		"name": "Downtown", "currency": "USD", "hours": hours,
	})
	require.Equal(t, http.StatusCreated, w.Code, "branch create: %v", resp.Error)
	var branch idHolder
	require.NoError(t, json.Unmarshal(resp.Data, &branch))

	w, resp = s.do(t, http.MethodPost, "/api/v1/branches/"+branch.ID+"/services", adminToken, gin.H{
		"name": "Classic Haircut", "category": "haircut", "duration_minutes": 60, "price": "55.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, "service create: %v", resp.Error)
	var service idHolder
	require.NoError(t, json.Unmarshal(resp.Data, &service))

	w, resp = s.do(t, http.MethodPost, "/api/v1/branches/"+branch.ID+"/staff", adminToken, gin.H{
		"name": "Jonah Reed", "role": "stylist", "specialties": []string{"haircut"},
	})
	require.Equal(t, http.StatusCreated, w.Code, "staff create: %v", resp.Error)
	var stylist idHolder
	require.NoError(t, json.Unmarshal(resp.Data, &stylist))

	for day := 0; day <= 6; day++ {
		w, resp = s.do(t, http.MethodPost, "/api/v1/staff/"+stylist.ID+"/shifts", adminToken, gin.H{
			"day_of_week": day, "start_time": "09:00", "end_time": "18:00",
		})
		require.Equal(t, http.StatusCreated, w.Code, "shift create: %v", resp.Error)
	}

	return branch.ID, service.ID, stylist.ID
}

func futureNoon(days int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
}

func TestBookingLifecycle(t *testing.T) {
	s := newSuite(t)
	adminToken := s.registerAdmin(t)
	branchID, serviceID, staffID := s.buildSalon(t, adminToken)
	customerToken := s.registerCustomer(t, "jane@example.com")

	start := futureNoon(3)

	// the requested slot shows up in the branch calendar
	w, resp := s.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/branches/%s/slots?date=%s&duration=60", branchID, start.Format("2006-01-02")),
		"", nil)
	require.Equal(t, http.StatusOK, w.Code, "slots: %v", resp.Error)
	var slotsPayload struct {
		Slots []struct {
			Start time.Time `json:"start"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &slotsPayload))
	found := false
	for _, slot := range slotsPayload.Slots {
		if slot.Start.Equal(start) {
			found = true
		}
	}
	assert.True(t, found, "expected %s in offered slots", start)

	// create
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": start.Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID, "staff_id": staffID}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "booking create: %v", resp.Error)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "pending", created.Status)

	// same stylist, overlapping time, different customer
	otherToken := s.registerCustomer(t, "rival@example.com")
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": start.Add(30 * time.Minute).Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID, "staff_id": staffID}},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STAFF_NOT_AVAILABLE", resp.Error.Code)

	// back-to-back is fine: starts exactly when the first one ends
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": start.Add(60 * time.Minute).Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID, "staff_id": staffID}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "adjacent booking: %v", resp.Error)

	// confirm
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/"+created.ID+"/confirm", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "confirm: %v", resp.Error)
	var confirmed struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)

	// conflict probe sees the confirmed booking
	w, resp = s.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/branches/%s/conflicts?scheduled_at=%s&duration=60",
			branchID, url.QueryEscape(start.Add(30*time.Minute).Format(time.RFC3339))),
		customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "conflicts: %v", resp.Error)
	var conflictsPayload struct {
		HasConflicts bool `json:"has_conflicts"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &conflictsPayload))
	assert.True(t, conflictsPayload.HasConflicts)

	// cancel with a reason
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/"+created.ID+"/cancel", customerToken, gin.H{
		"reason": "change of plans",
	})
	require.Equal(t, http.StatusOK, w.Code, "cancel: %v", resp.Error)
	var cancelled struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)

	// the freed slot is bookable again
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": start.Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID, "staff_id": staffID}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "rebook freed slot: %v", resp.Error)
}

func TestRescheduleFlow(t *testing.T) {
	s := newSuite(t)
	adminToken := s.registerAdmin(t)
	branchID, serviceID, staffID := s.buildSalon(t, adminToken)
	customerToken := s.registerCustomer(t, "jane@example.com")

	start := futureNoon(3)
	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": start.Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID, "staff_id": staffID}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "create: %v", resp.Error)
	var created idHolder
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	// pending bookings cannot be rescheduled
	newTime := futureNoon(4)
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/"+created.ID+"/reschedule", customerToken, gin.H{
		"new_time": newTime.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "RESCHEDULE_NOT_ALLOWED", resp.Error.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/"+created.ID+"/confirm", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "confirm: %v", resp.Error)

	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/"+created.ID+"/reschedule", customerToken, gin.H{
		"new_time": newTime.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, "reschedule: %v", resp.Error)
	var moved struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &moved))
	assert.True(t, moved.ScheduledAt.Equal(newTime))
}

func TestValidationAndAuthz(t *testing.T) {
	s := newSuite(t)
	adminToken := s.registerAdmin(t)
	branchID, serviceID, _ := s.buildSalon(t, adminToken)
	customerToken := s.registerCustomer(t, "jane@example.com")

	// booking endpoints need a token
	w, _ := s.do(t, http.MethodPost, "/api/v1/bookings", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// customers cannot hit admin endpoints
	w, _ = s.do(t, http.MethodPost, "/api/v1/branches", customerToken, gin.H{
		"name": "Rogue", "currency": "USD", "hours": gin.H{},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// outside operating hours
	late := futureNoon(3).Add(9 * time.Hour) // 21:00
	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"branch_id":    branchID,
		"scheduled_at": late.Format(time.RFC3339),
		"items":        []gin.H{{"service_id": serviceID}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "OUTSIDE_OPERATING_HOURS", resp.Error.Code)

	// price quote
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings/quote", customerToken, gin.H{
		"service_ids": []string{serviceID},
	})
	require.Equal(t, http.StatusOK, w.Code, "quote: %v", resp.Error)
	var quote struct {
		Subtotal struct {
			Amount string `json:"amount"`
		} `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Equal(t, "55.00", quote.Subtotal.Amount)
}
