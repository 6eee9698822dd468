// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"bus-booking/internal/adaptor"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/realtime"
	"bus-booking/internal/usecase"
	"bus-booking/internal/worker"
	"bus-booking/pkg/database"
	"bus-booking/pkg/leasestore"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds everything main needs to run: the router plus the
// background tasks whose lifetimes main owns.
type App struct {
	Router  *chi.Mux
	Hub     *realtime.Hub
	Sweeper *worker.Sweeper
}

// Wiring initializes all dependencies
func Wiring(
	db database.PgxIface,
	repo *repository.Repository,
	store leasestore.Store,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	hub := realtime.NewHub(logger)

	// Initialize services and handlers
	service := usecase.NewService(db, repo, store, hub, config, logger)

	// new subscribers get the current seat map before any deltas
	hub.SetSnapshotFunc(service.Trip.SeatStatuses)

	handler := adaptor.NewHandler(service, hub, logger)

	sweeper := worker.NewSweeper(
		repo.SeatLease,
		time.Duration(config.Hold.SweepIntervalSecs)*time.Second,
		logger,
	)

	router := setupRouter(handler, logger)

	return &App{
		Router:  router,
		Hub:     hub,
		Sweeper: sweeper,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireTrip(r, handler.Trip, handler.Hold, handler.Realtime)
	wireBooking(r, handler.Booking)
	wirePayment(r, handler.Payment)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
