package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	carsvc "github.com/luxurydrive/backoffice/internal/cars"
	customersvc "github.com/luxurydrive/backoffice/internal/customers"
	reservationsvc "github.com/luxurydrive/backoffice/internal/reservations"
	settingsvc "github.com/luxurydrive/backoffice/internal/settings"
	testimonialsvc "github.com/luxurydrive/backoffice/internal/testimonials"
	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	"github.com/luxurydrive/backoffice/pkg/metrics"
)

type stubCarService struct{}

func (stubCarService) List(context.Context) ([]carsvc.CarDTO, error) { return nil, nil }
func (stubCarService) Create(context.Context, carsvc.Input) (*carsvc.CarDTO, error) {
	return &carsvc.CarDTO{}, nil
}
func (stubCarService) Update(context.Context, uint, carsvc.Input) (*carsvc.CarDTO, error) {
	return &carsvc.CarDTO{}, nil
}
func (stubCarService) Delete(context.Context, uint) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Car{}, &models.Customer{}, &models.Reservation{},
		&models.Setting{}, &models.Testimonial{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	dbClient := db.NewFromConn(conn)

	reservationRepo := reservationsvc.NewRepository(conn)
	reservationService, err := reservationsvc.NewService(reservationRepo, reservationRepo, dbClient)
	if err != nil {
		t.Fatalf("reservation service: %v", err)
	}
	customerRepo := customersvc.NewRepository(conn)
	customerService, err := customersvc.NewService(customerRepo, customerRepo, dbClient)
	if err != nil {
		t.Fatalf("customer service: %v", err)
	}
	settingsService, err := settingsvc.NewService(dbClient)
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}
	testimonialService, err := testimonialsvc.NewService(dbClient)
	if err != nil {
		t.Fatalf("testimonial service: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Upload.MaxUploadMB = 10

	registry := prometheus.NewRegistry()

	return NewRouter(
		cfg,
		nil,
		dbClient,
		nil,
		metrics.NewHTTPMetrics(registry),
		registry,
		stubCarService{},
		customerService,
		reservationService,
		settingsService,
		testimonialService,
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get defaults: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Luxury Drive") {
		t.Fatalf("expected default site name in %s", rec.Body.String())
	}

	body := `{"site_name":"LD","phone":"1","contact_email":"a@b.c","facebook":"f","instagram":"i","address":"a","gps":"g","maintenance_mode":false}`
	req = httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Generate one observed request first.
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(payload), "http_requests_total") {
		t.Fatal("expected http_requests_total series in metrics output")
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCustomerLifecycleThroughRouter(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"Nadia","phone":"212600000001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Nadia") {
		t.Fatalf("list: expected created customer, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/customers/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
