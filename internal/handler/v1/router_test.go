package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medibook/medibook/internal/config"
	"github.com/medibook/medibook/internal/domain"
	"github.com/medibook/medibook/internal/repository/memory"
	"github.com/medibook/medibook/internal/service"
	"github.com/medibook/medibook/pkg/auth"
	"github.com/medibook/medibook/pkg/metrics"
)

var testCollector = metrics.NewCollector("medibook_handler_test")

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

type testServer struct {
	router        *gin.Engine
	providerToken string
	patientToken  string
	providerID    uuid.UUID
	patientID     uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Environment = "test"
	cfg.JWT = config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "medibook-test",
	}
	cfg.CORS.AllowedOrigins = []string{"http://localhost"}
	cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}
	cfg.CORS.AllowedHeaders = []string{"Authorization", "Content-Type"}

	log := zap.NewNop()
	auditSvc := service.NewAuditService(noopAuditRepo{}, log)

	availabilityRepo := memory.NewAvailabilityRepository()
	bookingRepo := memory.NewBookingRepository()
	directoryRepo := memory.NewDirectoryRepository()

	directorySvc := service.NewDirectoryService(directoryRepo)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, auditSvc, testCollector, log)
	bookingSvc := service.NewBookingService(bookingRepo, availabilityRepo, directorySvc, auditSvc, testCollector, log)

	jwtManager := auth.NewJWTManager(cfg.JWT)

	providerID := uuid.New()
	patientID := uuid.New()

	providerPair, err := jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: providerID, Email: "doc@example.com", Role: domain.RoleProvider,
	})
	require.NoError(t, err)
	patientPair, err := jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: patientID, Email: "pat@example.com", Role: domain.RolePatient,
	})
	require.NoError(t, err)

	router := NewRouter(cfg, RouterDeps{
		Availability: availabilitySvc,
		Bookings:     bookingSvc,
		Directory:    directorySvc,
		JWTManager:   jwtManager,
		Metrics:      testCollector,
	})

	return &testServer{
		router:        router,
		providerToken: providerPair.AccessToken,
		patientToken:  patientPair.AccessToken,
		providerID:    providerID,
		patientID:     patientID,
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) addAvailability(t *testing.T, date string, labels ...string) {
	t.Helper()
	w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/providers/%s/availability", s.providerID), s.providerToken,
		gin.H{"date": date, "labels": labels})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBookingFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.addAvailability(t, "2025-05-01", "09:00", "11:00")

	bookBody := gin.H{
		"providerId": s.providerID.String(),
		"patientId":  s.patientID.String(),
		"date":       "2025-05-01",
		"timeLabel":  "09:00",
	}

	w := s.do(http.MethodPost, "/api/v1/bookings", s.patientToken, bookBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID     uuid.UUID `json:"ID"`
			Status string    `json:"Status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Data.Status)

	// Same slot again conflicts.
	w = s.do(http.MethodPost, "/api/v1/bookings", s.patientToken, bookBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Confirm, then an illegal jump back to pending.
	w = s.do(http.MethodPut, "/api/v1/bookings/"+created.Data.ID.String()+"/status", s.providerToken,
		gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, "/api/v1/bookings/"+created.Data.ID.String()+"/status", s.providerToken,
		gin.H{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.addAvailability(t, "2025-05-01", "09:00")

	// Unopened slot -> 404.
	w := s.do(http.MethodPost, "/api/v1/bookings", s.patientToken, gin.H{
		"providerId": s.providerID.String(),
		"patientId":  s.patientID.String(),
		"date":       "2025-05-02",
		"timeLabel":  "09:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Label outside the vocabulary -> 400.
	w = s.do(http.MethodPost, "/api/v1/bookings", s.patientToken, gin.H{
		"providerId": s.providerID.String(),
		"patientId":  s.patientID.String(),
		"date":       "2025-05-01",
		"timeLabel":  "08:45",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown status on update -> 400; unknown booking -> 404.
	w = s.do(http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/status", s.providerToken,
		gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/status", s.providerToken,
		gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)

	// No token at all.
	w := s.do(http.MethodPost, "/api/v1/bookings", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A provider cannot book; a patient cannot publish availability.
	w = s.do(http.MethodPost, "/api/v1/bookings", s.providerToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/providers/%s/availability", s.providerID), s.patientToken,
		gin.H{"date": "2025-05-01", "labels": []string{"09:00"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAvailabilityEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.addAvailability(t, "2025-05-02", "11:00")
	s.addAvailability(t, "2025-05-01", "09:00", "09:00", "14:00")

	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/providers/%s/availability", s.providerID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID     uuid.UUID `json:"id"`
			Date   string    `json:"date"`
			Labels []string  `json:"labels"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2025-05-01", resp.Data[0].Date)
	assert.Equal(t, []string{"09:00", "14:00"}, resp.Data[0].Labels)

	// Delete an entry, then deleting again is a 404.
	w = s.do(http.MethodDelete, "/api/v1/availability/"+resp.Data[0].ID.String(), s.providerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/availability/"+resp.Data[0].ID.String(), s.providerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
