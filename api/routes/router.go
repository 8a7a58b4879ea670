package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxurydrive/backoffice/api/controllers"
	"github.com/luxurydrive/backoffice/api/middleware"
	carsvc "github.com/luxurydrive/backoffice/internal/cars"
	customersvc "github.com/luxurydrive/backoffice/internal/customers"
	reservationsvc "github.com/luxurydrive/backoffice/internal/reservations"
	settingsvc "github.com/luxurydrive/backoffice/internal/settings"
	testimonialsvc "github.com/luxurydrive/backoffice/internal/testimonials"
	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/logger"
	"github.com/luxurydrive/backoffice/pkg/metrics"
	"github.com/luxurydrive/backoffice/pkg/storage/cloudinary"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	mediaP cloudinary.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	promGatherer prometheus.Gatherer,
	carService carsvc.Service,
	customerService customersvc.Service,
	reservationService reservationsvc.Service,
	settingsService settingsvc.Service,
	testimonialService testimonialsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, mediaP))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	maxUploadBytes := cfg.Upload.MaxUploadBytes()

	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/", controllers.ListCars(carService, logg))
		r.Post("/", controllers.CreateCar(carService, logg, maxUploadBytes))
		r.Put("/{id}", controllers.UpdateCar(carService, logg, maxUploadBytes))
		r.Delete("/{id}", controllers.DeleteCar(carService, logg))
	})

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", controllers.ListCustomers(customerService, logg))
		r.Post("/", controllers.CreateCustomer(customerService, logg))
		r.Put("/{id}", controllers.UpdateCustomer(customerService, logg))
		r.Delete("/{id}", controllers.DeleteCustomer(customerService, logg))
	})

	r.Route("/api/reservations", func(r chi.Router) {
		r.Get("/", controllers.ListReservations(reservationService, logg))
		r.Post("/", controllers.CreateReservation(reservationService, logg))
		r.Put("/{id}", controllers.UpdateReservation(reservationService, logg))
		r.Delete("/{id}", controllers.DeleteReservation(reservationService, logg))
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", controllers.GetSettings(settingsService, logg))
		r.Put("/", controllers.PutSettings(settingsService, logg))
	})

	r.Route("/api/testimonials", func(r chi.Router) {
		r.Get("/", controllers.ListTestimonials(testimonialService, logg))
		r.Post("/", controllers.CreateTestimonial(testimonialService, logg))
		r.Put("/{id}", controllers.UpdateTestimonial(testimonialService, logg))
		r.Delete("/{id}", controllers.DeleteTestimonial(testimonialService, logg))
	})

	return r
}
